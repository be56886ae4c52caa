package config

import (
	"github.com/Faultbox/scilla/internal/app"
	"github.com/Faultbox/scilla/internal/engine/camera"
	"github.com/Faultbox/scilla/internal/engine/renderer"
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/window"
)

// Title is the window title.
const Title = "Scilla"

// AppConfig maps the file settings onto the viewer's components.
func (c *Config) AppConfig() app.Config {
	rc := renderer.DefaultConfig(c.Graphics.Width, c.Graphics.Height)
	rc.Tiling = c.Graphics.Tiling
	rc.Projection = camera.Projection{Near: c.Graphics.NearPlane, Far: c.Graphics.FarPlane}

	return app.Config{
		Window: window.Config{
			Title:      Title,
			Width:      c.Graphics.Width,
			Height:     c.Graphics.Height,
			Fullscreen: c.Graphics.Fullscreen,
			VSync:      c.Graphics.VSync,
			Samples:    c.Graphics.Samples,
		},
		Renderer:   rc,
		Scene:      c.SceneConfig(),
		AssetRoots: c.Assets.Roots,
		ShaderDir:  c.Assets.ShaderDir,
		HotReload:  c.Assets.HotReload,
		Screenshot: c.Graphics.Screenshot,
		GLDebug:    c.Graphics.GLDebug,
	}
}

// SceneConfig returns the scene description.
func (c *Config) SceneConfig() scene.Config {
	return scene.Config{
		Width:          c.Terrain.Width,
		Depth:          c.Terrain.Depth,
		Terrain:        c.Terrain.Noise,
		Bands:          c.Scene.Bands,
		Vegetation:     c.Vegetation.Layers,
		VegetationSeed: c.Vegetation.Seed,
		Objects:        c.Scene.Objects,
		SunSpeed:       c.Scene.SunSpeed,
		SunStart:       c.Scene.SunStart,
	}
}
