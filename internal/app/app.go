// Package app wires the window, scene and renderer into the main loop.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/assets"
	"github.com/Faultbox/scilla/internal/engine/debug"
	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/input"
	"github.com/Faultbox/scilla/internal/engine/renderer"
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/shader"
	"github.com/Faultbox/scilla/internal/engine/window"
	"github.com/Faultbox/scilla/internal/logger"
)

// Config holds everything needed to start the viewer.
type Config struct {
	Window     window.Config
	Renderer   renderer.Config
	Scene      scene.Config
	AssetRoots []string
	ShaderDir  string
	HotReload  bool
	Screenshot string // directory for F12 captures
	GLDebug    bool   // install the GL debug message callback
}

// Cursor is the part of the window the controls need.
type Cursor interface {
	ToggleCursor() bool
	CursorLocked() bool
}

// Shaders is the program set: lookup plus reload.
type Shaders interface {
	renderer.Shaders
	Poll() int
	ReloadAll() int
}

// App is the main viewer instance.
type App struct {
	config   Config
	running  bool
	window   *window.Window
	assets   *assets.Cache
	shaders  Shaders
	library  *shader.Library
	scene    *scene.Scene
	renderer *renderer.Renderer
	input    *input.Input
	cursor   Cursor
	timer    *FrameTimer
	dev      gpu.Device
	shots    *debug.ScreenshotCapture
	shotDue  bool
}

// New creates the window and GL context, then builds the scene.
func New(cfg Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{
		config: cfg,
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Screenshot, "scilla"),
	}

	var err error
	a.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.cursor = a.window

	// Everything below needs the GL context.
	dev, err := gpu.NewGLDevice(cfg.GLDebug)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("gpu device: %w", err)
	}
	a.dev = dev

	a.assets = assets.NewCache(dev, cfg.AssetRoots...)
	a.library, err = shader.NewLibrary(cfg.ShaderDir, cfg.HotReload)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to compile shaders: %w", err)
	}
	a.shaders = a.library

	a.scene = scene.New(dev, a.assets, cfg.Scene)
	if err := a.scene.Initialize(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	w, h := a.window.GetSize()
	rcfg := cfg.Renderer
	rcfg.Width, rcfg.Height = w, h
	a.renderer, err = renderer.New(dev, a.shaders, rcfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	logger.Info("viewer initialized")
	return a, nil
}

// Run starts the main loop and returns when the window closes or Escape is
// pressed.
func (a *App) Run() error {
	a.running = true
	a.timer = NewFrameTimer(nil)
	a.window.SetCursorLocked(true)

	logger.Info("starting main loop")

	for a.running {
		dt, fpsUpdated := a.timer.Tick()

		if a.input.Update() {
			a.running = false
			break
		}
		if w, h, ok := a.input.Resized(); ok {
			a.renderer.Resize(w, h)
		}

		if err := a.update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		if err := a.renderer.Render(a.scene); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.captureIfDue()
		a.window.SwapBuffers()

		if fpsUpdated {
			logger.Debug("fps",
				zap.Float64("fps", a.timer.FPS()),
				zap.Float32("dt_ms", dt*1000),
			)
			a.window.SetTitle(fmt.Sprintf("%s - %.0f fps", a.config.Window.Title, a.timer.FPS()))
		}
	}

	return nil
}

// update applies this frame's input and advances the scene.
func (a *App) update(dt float32) error {
	for _, action := range a.input.Actions() {
		if err := a.apply(action); err != nil {
			return err
		}
	}
	if !a.running {
		return nil
	}

	a.steer(dt)
	a.pick()
	a.scene.Update(dt)

	if a.config.HotReload {
		if n := a.shaders.Poll(); n > 0 {
			logger.Info("shaders hot reloaded", zap.Int("programs", n))
		}
	}
	return nil
}

// apply runs one key action.
func (a *App) apply(action input.Action) error {
	switch action {
	case input.ActionQuit:
		a.running = false
	case input.ActionToggleCursor:
		locked := a.cursor.ToggleCursor()
		logger.Debug("cursor lock", zap.Bool("locked", locked))
	case input.ActionWireframe:
		on := a.renderer.ToggleWireframe()
		logger.Info("wireframe", zap.Bool("enabled", on))
	case input.ActionNormalMapping:
		on := a.renderer.ToggleNormalMapping()
		logger.Info("normal mapping", zap.Bool("enabled", on))
	case input.ActionReloadShaders:
		n := a.shaders.ReloadAll()
		logger.Info("shaders reloaded", zap.Int("programs", n))
	case input.ActionRegenerate:
		params := a.scene.Params()
		params.Seed++
		if err := a.scene.Regenerate(params); err != nil {
			return fmt.Errorf("regenerate: %w", err)
		}
		logger.Info("terrain regenerated", zap.Int64("seed", params.Seed))
	case input.ActionToggleCamera:
		a.scene.ToggleCamera()
	case input.ActionScreenshot:
		a.shotDue = true
	}
	return nil
}

// steer moves the active camera. Mouse look only applies while the cursor
// is captured.
func (a *App) steer(dt float32) {
	forward, right, up, boost := a.input.Movement()
	dx, dy := a.input.MouseDelta()
	wheel := a.input.Wheel()
	locked := a.cursor.CursorLocked()

	if a.scene.Orbiting() {
		if locked {
			a.scene.Orbit.HandleDrag(dx, dy)
		}
		a.scene.Orbit.HandleZoom(wheel)
		if forward != 0 || right != 0 || up != 0 {
			a.scene.Orbit.HandleMovement(forward*dt*60, right*dt*60, up*dt*60)
		}
		return
	}

	if locked {
		a.scene.Fly.Look(dx, -dy)
	}
	a.scene.Fly.Zoom(wheel)
	a.scene.Fly.Move(forward, right, up, boost, dt)
}

// pick logs the terrain point under a left click. Only a free cursor
// points at something.
func (a *App) pick() {
	x, y, ok := a.input.Clicked()
	if !ok || a.cursor.CursorLocked() {
		return
	}
	w, h := a.renderer.Size()
	p, hit := a.scene.Pick(float32(x), float32(y), w, h, a.renderer.Projection())
	if !hit {
		logger.Info("pick missed terrain", zap.Int("x", x), zap.Int("y", y))
		return
	}
	logger.Info("picked terrain",
		zap.Float32("x", p.X()),
		zap.Float32("y", p.Y()),
		zap.Float32("z", p.Z()),
	)
}

// captureIfDue saves the frame just rendered, before it is swapped away.
func (a *App) captureIfDue() {
	if !a.shotDue {
		return
	}
	a.shotDue = false
	w, h := a.renderer.Size()
	path, err := a.shots.Capture(a.dev, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources in reverse creation order.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.scene != nil {
		a.scene.Release()
	}
	if a.assets != nil {
		a.assets.Release()
	}
	if a.library != nil {
		a.library.Delete()
	}
	if a.window != nil {
		a.window.Close()
	}
}
