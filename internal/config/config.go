// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/terrain"
	"github.com/Faultbox/scilla/internal/engine/vegetation"
	"github.com/Faultbox/scilla/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics" toml:"graphics"`
	Terrain    TerrainConfig    `yaml:"terrain" toml:"terrain"`
	Vegetation VegetationConfig `yaml:"vegetation" toml:"vegetation"`
	Scene      SceneConfig      `yaml:"scene" toml:"scene"`
	Assets     AssetsConfig     `yaml:"assets" toml:"assets"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width" toml:"width"`
	Height     int     `yaml:"height" toml:"height"`
	Fullscreen bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool    `yaml:"vsync" toml:"vsync"`
	Samples    int     `yaml:"samples" toml:"samples"`
	GLDebug    bool    `yaml:"gl_debug" toml:"gl_debug"`
	Tiling     float32 `yaml:"tiling" toml:"tiling"` // terrain texture repeats per cell
	NearPlane  float32 `yaml:"near_plane" toml:"near_plane"`
	FarPlane   float32 `yaml:"far_plane" toml:"far_plane"`
	Screenshot string  `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// TerrainConfig sizes the grid and shapes the noise.
type TerrainConfig struct {
	Width int            `yaml:"width" toml:"width"`
	Depth int            `yaml:"depth" toml:"depth"`
	Noise terrain.Params `yaml:"noise" toml:"noise"`
}

// VegetationConfig lists the instanced layers scattered on the terrain.
type VegetationConfig struct {
	Seed   uint64             `yaml:"seed" toml:"seed"`
	Layers []vegetation.Layer `yaml:"layers" toml:"layers"`
}

// SceneConfig holds terrain materials, static objects and the day cycle.
type SceneConfig struct {
	Bands    []scene.BandTextures `yaml:"bands" toml:"bands"`
	Objects  []scene.ObjectConfig `yaml:"objects" toml:"objects"`
	SunSpeed float32              `yaml:"sun_speed" toml:"sun_speed"` // radians per second
	SunStart float32              `yaml:"sun_start" toml:"sun_start"`
}

// AssetsConfig holds asset search roots and shader reloading.
type AssetsConfig struct {
	Roots     []string `yaml:"roots" toml:"roots"` // later roots win
	ShaderDir string   `yaml:"shader_dir" toml:"shader_dir"`
	HotReload bool     `yaml:"hot_reload" toml:"hot_reload"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// FileConfig converts to the logger's rotation settings.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	fc := logger.DefaultFileConfig("")
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			Tiling:     0.1,
			NearPlane:  0.1,
			FarPlane:   5000,
			Screenshot: "screenshots",
		},
		Terrain: TerrainConfig{
			Width: 1024,
			Depth: 1024,
			Noise: terrain.DefaultParams(),
		},
		Vegetation: VegetationConfig{
			Seed:   1,
			Layers: vegetation.DefaultLayers(),
		},
		Scene: SceneConfig{
			Bands: []scene.BandTextures{
				{
					Name:    "grass",
					Diffuse: "textures/coast_sand_rocks_02_diff_2k.jpg",
					Normal:  "textures/coast_sand_rocks_02_nor_gl_2k.png",
				},
				{
					Name:    "rock",
					Diffuse: "textures/rock_face_03_diff_2k.jpg",
					Normal:  "textures/rock_face_03_nor_gl_2k.png",
				},
				{
					Name:    "snow",
					Diffuse: "textures/snow_field_aerial_col_2k.jpg",
					Normal:  "textures/snow_field_aerial_nor_gl_2k.png",
				},
			},
			SunSpeed: 0.01,
			SunStart: 1.0,
		},
		Assets: AssetsConfig{
			Roots:     []string{"assets"},
			ShaderDir: "",
			HotReload: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAgeDays: fc.MaxAgeDays,
			Compress:   fc.Compress,
		},
	}
}
