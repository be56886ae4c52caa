package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scilla/internal/assets"
	"github.com/Faultbox/scilla/internal/engine/debug"
	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/gpu/gputest"
	"github.com/Faultbox/scilla/internal/engine/input"
	"github.com/Faultbox/scilla/internal/engine/model/modeltest"
	"github.com/Faultbox/scilla/internal/engine/renderer"
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/shader"
	"github.com/Faultbox/scilla/internal/engine/terrain"
)

type fakeCursor struct{ locked bool }

func (c *fakeCursor) ToggleCursor() bool { c.locked = !c.locked; return c.locked }
func (c *fakeCursor) CursorLocked() bool { return c.locked }

type fakeShaders struct {
	programs  map[string]*gputest.Shader
	polls     int
	reloadAll int
}

func (f *fakeShaders) Shader(name string) gpu.Shader { return f.programs[name] }
func (f *fakeShaders) Poll() int                     { f.polls++; return 0 }
func (f *fakeShaders) ReloadAll() int                { f.reloadAll++; return len(f.programs) }

func newTestApp(t *testing.T) (*App, *fakeShaders, *fakeCursor) {
	t.Helper()
	dir := t.TempDir()
	modeltest.Write(t, filepath.Join(dir, "rock.gltf"), modeltest.Triangle{})

	dev := gputest.NewDevice()
	params := terrain.DefaultParams()
	params.Octaves = 2
	sc := scene.New(dev, assets.NewCache(dev, dir), scene.Config{
		Width: 16, Depth: 16, Terrain: params,
		Objects: []scene.ObjectConfig{{Model: "rock.gltf"}},
	})
	require.NoError(t, sc.Initialize())

	shaders := &fakeShaders{programs: make(map[string]*gputest.Shader)}
	for _, name := range shader.Names() {
		shaders.programs[name] = gputest.NewShader()
	}
	r, err := renderer.New(dev, shaders, renderer.DefaultConfig(320, 240))
	require.NoError(t, err)

	cursor := &fakeCursor{locked: true}
	a := &App{
		config:   Config{HotReload: true},
		running:  true,
		shaders:  shaders,
		scene:    sc,
		renderer: r,
		input:    input.New(),
		cursor:   cursor,
		dev:      dev,
		shots:    debug.NewScreenshotCapture(filepath.Join(dir, "shots"), "test"),
	}
	t.Cleanup(func() {
		r.Close()
		sc.Release()
	})
	return a, shaders, cursor
}

func press(a *App, keys ...sdl.Scancode) {
	a.input.Begin()
	for _, k := range keys {
		a.input.Handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: k}})
	}
}

func TestActions(t *testing.T) {
	a, shaders, cursor := newTestApp(t)

	press(a, sdl.SCANCODE_F, sdl.SCANCODE_N, sdl.SCANCODE_R, sdl.SCANCODE_TAB, sdl.SCANCODE_LALT)
	require.NoError(t, a.update(0.016))

	assert.True(t, a.renderer.Wireframe())
	assert.False(t, a.renderer.NormalMapping())
	assert.Equal(t, 1, shaders.reloadAll)
	assert.True(t, a.scene.Orbiting())
	assert.False(t, cursor.locked)
	assert.Equal(t, 1, shaders.polls, "hot reload polled once per frame")
	assert.True(t, a.running)
}

func TestRegenerateAdvancesSeed(t *testing.T) {
	a, _, _ := newTestApp(t)
	seed := a.scene.Params().Seed

	press(a, sdl.SCANCODE_G)
	require.NoError(t, a.update(0.016))
	assert.Equal(t, seed+1, a.scene.Params().Seed)
}

func TestQuitStopsUpdate(t *testing.T) {
	a, shaders, _ := newTestApp(t)
	press(a, sdl.SCANCODE_ESCAPE)
	require.NoError(t, a.update(0.016))
	assert.False(t, a.running)
	assert.Zero(t, shaders.polls)
}

func TestFlyMovement(t *testing.T) {
	a, _, _ := newTestApp(t)
	start := a.scene.Fly.Position()
	front := a.scene.Fly.Front()

	press(a, sdl.SCANCODE_W)
	require.NoError(t, a.update(0.5))

	moved := a.scene.Fly.Position().Sub(start)
	assert.InDelta(t, a.scene.Fly.Speed*0.5, moved.Len(), 1e-3)
	assert.InDelta(t, 1, moved.Normalize().Dot(front), 1e-4)
}

func TestMouseLookNeedsLockedCursor(t *testing.T) {
	a, _, cursor := newTestApp(t)
	yaw := a.scene.Fly.Yaw

	a.input.Begin()
	a.input.Handle(&sdl.MouseMotionEvent{XRel: 10})
	require.NoError(t, a.update(0.016))
	assert.InDelta(t, yaw+10*a.scene.Fly.Sensitivity, a.scene.Fly.Yaw, 1e-5)

	cursor.locked = false
	yaw = a.scene.Fly.Yaw
	a.input.Begin()
	a.input.Handle(&sdl.MouseMotionEvent{XRel: 10})
	require.NoError(t, a.update(0.016))
	assert.Equal(t, yaw, a.scene.Fly.Yaw)
}

func TestOrbitZoom(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.scene.ToggleCamera()
	d := a.scene.Orbit.Distance

	a.input.Begin()
	a.input.Handle(&sdl.MouseWheelEvent{Y: 1})
	require.NoError(t, a.update(0.016))
	assert.Less(t, a.scene.Orbit.Distance, d)
}

func TestFrameTimer(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	ft := NewFrameTimer(clock)

	var updated bool
	var dt float32
	for range 9 {
		now = now.Add(100 * time.Millisecond)
		dt, updated = ft.Tick()
		assert.False(t, updated)
	}
	assert.InDelta(t, 0.1, dt, 1e-6)

	now = now.Add(100 * time.Millisecond)
	_, updated = ft.Tick()
	assert.True(t, updated)
	assert.InDelta(t, 10, ft.FPS(), 1e-9)
}

func TestFrameTimerClampsStalls(t *testing.T) {
	now := time.Unix(0, 0)
	ft := NewFrameTimer(func() time.Time { return now })
	now = now.Add(3 * time.Second)
	dt, _ := ft.Tick()
	assert.Equal(t, float32(maxDelta), dt)
}

func TestScreenshotCapturedAfterRender(t *testing.T) {
	a, _, _ := newTestApp(t)
	press(a, sdl.SCANCODE_F12)
	require.NoError(t, a.update(0.016))
	assert.True(t, a.shotDue)

	a.captureIfDue()
	assert.False(t, a.shotDue)
	files, err := filepath.Glob(filepath.Join(filepath.Dir(a.shots.GenerateFilename()), "test_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestPickOnlyWithFreeCursor(t *testing.T) {
	a, _, cursor := newTestApp(t)
	cursor.locked = false

	a.input.Begin()
	a.input.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 160, Y: 120})
	assert.NotPanics(t, func() { require.NoError(t, a.update(0.016)) })
}
