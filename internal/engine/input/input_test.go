package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func key(t uint32, sc sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: t, Repeat: repeat, Keysym: sdl.Keysym{Scancode: sc}}
}

func TestActionsFromBindings(t *testing.T) {
	in := New()
	in.Begin()
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_F, 0))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_F, 1))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_G, 0))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_Z, 0))

	assert.Equal(t, []Action{ActionWireframe, ActionRegenerate}, in.Actions())
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_Z))
	assert.False(t, in.Quit())

	in.Begin()
	assert.Empty(t, in.Actions())
}

func TestEscapeQuits(t *testing.T) {
	in := New()
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_ESCAPE, 0))
	assert.True(t, in.Quit())

	in = New()
	in.Handle(&sdl.QuitEvent{Type: sdl.QUIT})
	assert.True(t, in.Quit())
}

func TestRebind(t *testing.T) {
	in := New()
	in.Bind(sdl.SCANCODE_F, ActionNone)
	in.Bind(sdl.SCANCODE_P, ActionWireframe)
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_F, 0))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_P, 0))
	assert.Equal(t, []Action{ActionWireframe}, in.Actions())
}

func TestMovementAxes(t *testing.T) {
	in := New()
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 0))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_A, 0))
	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_LSHIFT, 0))

	f, r, u, boost := in.Movement()
	assert.Equal(t, float32(1), f)
	assert.Equal(t, float32(-1), r)
	assert.Zero(t, u)
	assert.True(t, boost)

	in.Begin()
	f, _, _, _ = in.Movement()
	assert.Equal(t, float32(1), f, "held keys survive a new frame")

	in.Handle(key(sdl.KEYDOWN, sdl.SCANCODE_S, 0))
	f, _, _, _ = in.Movement()
	assert.Zero(t, f, "opposite keys cancel")

	in.Handle(key(sdl.KEYUP, sdl.SCANCODE_W, 0))
	f, _, _, _ = in.Movement()
	assert.Equal(t, float32(-1), f)
	assert.False(t, in.IsKeyHeld(sdl.SCANCODE_W))
}

func TestMouseAccumulates(t *testing.T) {
	in := New()
	in.Handle(&sdl.MouseMotionEvent{XRel: 3, YRel: -2})
	in.Handle(&sdl.MouseMotionEvent{XRel: 4, YRel: 1})
	in.Handle(&sdl.MouseWheelEvent{Y: 2})

	dx, dy := in.MouseDelta()
	assert.Equal(t, float32(7), dx)
	assert.Equal(t, float32(-1), dy)
	assert.Equal(t, float32(2), in.Wheel())

	in.Begin()
	dx, _ = in.MouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, in.Wheel())
}

func TestResize(t *testing.T) {
	in := New()
	_, _, ok := in.Resized()
	assert.False(t, ok)

	in.Handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 1280, Data2: 720})
	w, h, ok := in.Resized()
	assert.True(t, ok)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "reload-shaders", ActionReloadShaders.String())
	assert.Equal(t, "unknown", Action(99).String())
}

func TestLeftClick(t *testing.T) {
	in := New()
	in.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, X: 1, Y: 1})
	_, _, ok := in.Clicked()
	assert.False(t, ok, "right button is not a pick")

	in.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 40, Y: 30})
	in.Handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 41, Y: 30})
	x, y, ok := in.Clicked()
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 30, y)

	in.Begin()
	_, _, ok = in.Clicked()
	assert.False(t, ok)
}
