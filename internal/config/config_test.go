package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/scilla/internal/engine/scene"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Terrain
	if cfg.Terrain.Width != 1024 || cfg.Terrain.Depth != 1024 {
		t.Errorf("expected 1024x1024 terrain, got %dx%d", cfg.Terrain.Width, cfg.Terrain.Depth)
	}
	if cfg.Terrain.Noise.Octaves != 10 {
		t.Errorf("expected 10 octaves, got %d", cfg.Terrain.Noise.Octaves)
	}

	// Vegetation and scene
	if len(cfg.Vegetation.Layers) != 1 || cfg.Vegetation.Layers[0].Count != 200 {
		t.Errorf("expected one 200-candidate layer, got %+v", cfg.Vegetation.Layers)
	}
	if len(cfg.Scene.Bands) != 3 {
		t.Errorf("expected 3 terrain bands, got %d", len(cfg.Scene.Bands))
	}

	// Logging
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

terrain:
  width: 256
  depth: 128
  noise:
    octaves: 4
    seed: 42

vegetation:
  seed: 9
  layers:
    - name: pine
      model: models/pine.gltf
      count: 50
      min_height: 5
      max_height: 40
      scale_min: 1
      scale_max: 2

scene:
  objects:
    - model: models/backpack.gltf
      position: [0, 10, 0]

logging:
  level: "debug"
  log_file: "scilla.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Terrain.Width != 256 || cfg.Terrain.Depth != 128 {
		t.Errorf("expected 256x128, got %dx%d", cfg.Terrain.Width, cfg.Terrain.Depth)
	}
	if cfg.Terrain.Noise.Octaves != 4 || cfg.Terrain.Noise.Seed != 42 {
		t.Errorf("noise not loaded: %+v", cfg.Terrain.Noise)
	}
	// Unset keys keep their defaults.
	if cfg.Terrain.Noise.Lacunarity != 2.5 {
		t.Errorf("expected default lacunarity 2.5, got %f", cfg.Terrain.Noise.Lacunarity)
	}

	if len(cfg.Vegetation.Layers) != 1 || cfg.Vegetation.Layers[0].Name != "pine" {
		t.Fatalf("expected the pine layer to replace defaults, got %+v", cfg.Vegetation.Layers)
	}
	if cfg.Vegetation.Layers[0].MaxHeight != 40 {
		t.Errorf("expected max height 40, got %f", cfg.Vegetation.Layers[0].MaxHeight)
	}

	if len(cfg.Scene.Objects) != 1 || cfg.Scene.Objects[0].Position[1] != 10 {
		t.Errorf("expected one object at y=10, got %+v", cfg.Scene.Objects)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "scilla.log" {
		t.Errorf("expected log file 'scilla.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	tomlContent := `
[graphics]
width = 800
height = 600

[terrain]
width = 64

[terrain.noise]
power_curve = 2.0

[[vegetation.layers]]
name = "bush"
model = "models/bush.glb"
count = 10
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Terrain.Width != 64 || cfg.Terrain.Depth != 1024 {
		t.Errorf("expected 64x1024 terrain, got %dx%d", cfg.Terrain.Width, cfg.Terrain.Depth)
	}
	if cfg.Terrain.Noise.PowerCurve != 2 {
		t.Errorf("expected power curve 2, got %f", cfg.Terrain.Noise.PowerCurve)
	}
	if cfg.Vegetation.Layers[0].Name != "bush" || cfg.Vegetation.Layers[0].Count != 10 {
		t.Errorf("expected bush layer first, got %+v", cfg.Vegetation.Layers)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Terrain.Width = 1
	cfg.Graphics.Tiling = 0
	cfg.Vegetation.Layers[0].ScaleMin = 2
	cfg.Vegetation.Layers[0].ScaleMax = 1
	cfg.Vegetation.Layers[0].Count = -5

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected repairable config, got %v", err)
	}
	if cfg.Graphics.Width != minWindow {
		t.Errorf("expected width clamped to %d, got %d", minWindow, cfg.Graphics.Width)
	}
	if cfg.Terrain.Width != minGrid {
		t.Errorf("expected terrain width clamped to %d, got %d", minGrid, cfg.Terrain.Width)
	}
	if cfg.Graphics.Tiling != 0.1 {
		t.Errorf("expected default tiling, got %f", cfg.Graphics.Tiling)
	}
	l := cfg.Vegetation.Layers[0]
	if l.ScaleMin != 1 || l.ScaleMax != 2 {
		t.Errorf("expected swapped scale range, got %f..%f", l.ScaleMin, l.ScaleMax)
	}
	if l.Count != 0 {
		t.Errorf("expected count clamped to 0, got %d", l.Count)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"far before near", func(c *Config) { c.Graphics.FarPlane = 0.01 }},
		{"layer without model", func(c *Config) { c.Vegetation.Layers[0].Model = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// TOML is found when no YAML exists.
	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[graphics]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.toml" {
		t.Errorf("expected ./config.toml, got %q", path)
	}

	// YAML wins over TOML.
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.Terrain.Noise.Seed = 77
			cfg.Scene.Objects = []scene.ObjectConfig{{Model: "a.gltf"}}

			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload: %v", err)
			}
			if loaded.Terrain.Noise.Seed != 77 {
				t.Errorf("expected seed 77, got %d", loaded.Terrain.Noise.Seed)
			}
			if len(loaded.Scene.Objects) != 1 || loaded.Scene.Objects[0].Model != "a.gltf" {
				t.Errorf("objects not saved: %+v", loaded.Scene.Objects)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.GLDebug {
					t.Error("expected GL debug output with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "seed flag",
			setup: func() { *flagSeed = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Noise.Seed != 0 {
					t.Errorf("expected seed 0 from flag, got %d", cfg.Terrain.Noise.Seed)
				}
			},
			teardown: func() { *flagSeed = -1 },
		},
		{
			name:  "unset seed keeps file value",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Noise.Seed != 1 {
					t.Errorf("expected default seed 1, got %d", cfg.Terrain.Noise.Seed)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestAppConfig(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Tiling = 0.5
	cfg.Terrain.Width = 300

	ac := cfg.AppConfig()
	if ac.Window.Title != Title || ac.Window.Width != 1280 {
		t.Errorf("unexpected window config %+v", ac.Window)
	}
	if ac.Renderer.Tiling != 0.5 || ac.Renderer.Projection.Far != 5000 {
		t.Errorf("unexpected renderer config %+v", ac.Renderer)
	}
	if ac.Scene.Width != 300 || ac.Scene.VegetationSeed != 1 || len(ac.Scene.Bands) != 3 {
		t.Errorf("unexpected scene config %+v", ac.Scene)
	}
	if len(ac.AssetRoots) != 1 || ac.AssetRoots[0] != "assets" {
		t.Errorf("unexpected asset roots %v", ac.AssetRoots)
	}
}
