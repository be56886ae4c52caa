// Package renderer draws a scene in fixed passes: terrain, objects,
// instanced vegetation, the light marker and finally the sky.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/engine/camera"
	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/lighting"
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/shader"
	"github.com/Faultbox/scilla/internal/logger"
)

// Shaders resolves a program by name. *shader.Library satisfies it.
type Shaders interface {
	Shader(name string) gpu.Shader
}

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor mgl32.Vec3
	SunColor   mgl32.Vec3
	Ambient    mgl32.Vec3
	Tiling     float32 // terrain texture repeats per grid unit
	Projection camera.Projection
}

// DefaultConfig returns a renderer configuration for the given viewport.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		ClearColor: mgl32.Vec3{0.1, 0.1, 0.15},
		SunColor:   mgl32.Vec3{1, 0.96, 0.9},
		Ambient:    mgl32.Vec3{0.15, 0.15, 0.18},
		Tiling:     0.1,
		Projection: camera.DefaultProjection(),
	}
}

// Renderer handles all per-frame drawing.
type Renderer struct {
	dev     gpu.Device
	shaders Shaders
	config  Config
	ubo     *camera.UBO

	wireframe     bool
	normalMapping bool
}

// New creates a renderer. The GL context must already be current.
func New(dev gpu.Device, shaders Shaders, cfg Config) (*Renderer, error) {
	ubo, err := camera.NewUBO(dev)
	if err != nil {
		return nil, fmt.Errorf("camera block: %w", err)
	}
	r := &Renderer{
		dev:           dev,
		shaders:       shaders,
		config:        cfg,
		ubo:           ubo,
		normalMapping: true,
	}
	dev.SetDepthFunc(gpu.DepthLess)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.ubo != nil {
		r.ubo.Release()
		r.ubo = nil
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) { return r.config.Width, r.config.Height }

// Projection returns the projection parameters.
func (r *Renderer) Projection() camera.Projection { return r.config.Projection }

// ToggleWireframe switches polygon fill mode and returns the new state.
func (r *Renderer) ToggleWireframe() bool {
	r.wireframe = !r.wireframe
	r.dev.SetWireframe(r.wireframe)
	return r.wireframe
}

// ToggleNormalMapping switches terrain normal maps and returns the new state.
func (r *Renderer) ToggleNormalMapping() bool {
	r.normalMapping = !r.normalMapping
	return r.normalMapping
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// NormalMapping reports whether terrain normal maps are applied.
func (r *Renderer) NormalMapping() bool { return r.normalMapping }

// Begin clears the frame and uploads the camera block.
func (r *Renderer) Begin(cam camera.Camera) error {
	c := r.config.ClearColor
	r.dev.Clear(c.X(), c.Y(), c.Z())

	view := cam.ViewMatrix()
	proj := r.config.Projection.Matrix(cam, r.config.Width, r.config.Height)
	if err := r.ubo.Upload(view, proj, cam.Position()); err != nil {
		return fmt.Errorf("camera block: %w", err)
	}
	return nil
}

// Render draws one frame of s.
func (r *Renderer) Render(s *scene.Scene) error {
	if err := r.Begin(s.Camera()); err != nil {
		return err
	}
	sun := s.Sun.Light(r.config.SunColor, r.config.Ambient)

	r.renderTerrain(s, sun)

	obj := r.shaders.Shader(shader.Object)
	obj.Use()
	sun.Apply(obj)
	s.PointLight.Apply(obj)
	for _, o := range s.Objects {
		obj.SetMat4("model", o.Transform())
		obj.SetMat3("normalMatrix", o.NormalMatrix())
		o.Model.Render(obj)
	}

	inst := r.shaders.Shader(shader.Instanced)
	inst.Use()
	sun.Apply(inst)
	s.PointLight.Apply(inst)
	if err := s.Vegetation.Render(inst); err != nil {
		return fmt.Errorf("vegetation: %w", err)
	}

	light := r.shaders.Shader(shader.Light)
	light.Use()
	light.SetMat4("model", s.PointLight.ModelMatrix())
	light.SetVec3("lightColor", s.PointLight.Color)
	s.LightCube.Render(light)

	sky := r.shaders.Shader(shader.Skybox)
	sky.Use()
	s.Skybox.Render(sky, s.Sun)
	return nil
}

func (r *Renderer) renderTerrain(s *scene.Scene, sun lighting.DirectionalLight) {
	t := r.shaders.Shader(shader.Terrain)
	t.Use()
	t.SetMat4("model", s.Terrain.ModelMatrix())
	sun.Apply(t)

	b := s.Terrain.WorldBounds()
	t.SetFloat("minHeight", b.Min.Y())
	t.SetFloat("maxHeight", b.Max.Y())
	t.SetFloat("tiling", r.config.Tiling)
	hf := s.Terrain.Heightfield()
	t.SetVec2("gridSize", mgl32.Vec2{float32(hf.Width()), float32(hf.Depth())})
	t.SetBool("enableNormalMapping", r.normalMapping)
	s.Terrain.Render(t)
}
