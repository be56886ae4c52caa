// Package input translates SDL2 events into viewer actions, held movement
// keys and per-frame mouse deltas.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies processed events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseWheel
	EventMouseDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	DX, DY int
	Wheel  int
	MouseX int
	MouseY int
	Button uint8
}

// Action is a one-shot command triggered by a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleCursor
	ActionWireframe
	ActionNormalMapping
	ActionReloadShaders
	ActionRegenerate
	ActionToggleCamera
	ActionScreenshot
)

var actionNames = [...]string{"none", "quit", "toggle-cursor", "wireframe", "normal-mapping", "reload-shaders", "regenerate", "toggle-camera", "screenshot"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// DefaultBindings maps keys to actions.
func DefaultBindings() map[sdl.Scancode]Action {
	return map[sdl.Scancode]Action{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_LALT:   ActionToggleCursor,
		sdl.SCANCODE_F:      ActionWireframe,
		sdl.SCANCODE_N:      ActionNormalMapping,
		sdl.SCANCODE_R:      ActionReloadShaders,
		sdl.SCANCODE_F5:     ActionReloadShaders,
		sdl.SCANCODE_G:      ActionRegenerate,
		sdl.SCANCODE_TAB:    ActionToggleCamera,
		sdl.SCANCODE_F12:    ActionScreenshot,
	}
}

// Input handles all input processing.
type Input struct {
	bindings map[sdl.Scancode]Action
	events   []Event
	actions  []Action
	held     map[sdl.Scancode]bool
	dx, dy   int
	wheel    int
	click    *Event
	quit     bool
	resized  bool
	width    int
	height   int
}

// New creates a new input handler with DefaultBindings.
func New() *Input {
	return &Input{
		bindings: DefaultBindings(),
		events:   make([]Event, 0, 16),
		held:     make(map[sdl.Scancode]bool),
	}
}

// Bind replaces the action for a key. ActionNone unbinds it.
func (i *Input) Bind(key sdl.Scancode, a Action) {
	if a == ActionNone {
		delete(i.bindings, key)
		return
	}
	i.bindings[key] = a
}

// Update polls SDL events and converts them.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.Begin()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Handle(event)
	}
	return i.quit
}

// Begin clears the per-frame state. Held keys persist.
func (i *Input) Begin() {
	i.events = i.events[:0]
	i.actions = i.actions[:0]
	i.dx, i.dy, i.wheel = 0, 0, 0
	i.resized = false
	i.click = nil
}

// Handle processes one SDL event.
func (i *Input) Handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.width, i.height = int(e.Data1), int(e.Data2)
			i.resized = true
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  i.width,
				Height: i.height,
			})
		}

	case *sdl.KeyboardEvent:
		key := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			i.held[key] = true
			i.events = append(i.events, Event{Type: EventKeyDown, Key: key})
			if e.Repeat != 0 {
				return
			}
			if a, ok := i.bindings[key]; ok {
				i.actions = append(i.actions, a)
				if a == ActionQuit {
					i.quit = true
				}
			}
		} else if e.Type == sdl.KEYUP {
			delete(i.held, key)
			i.events = append(i.events, Event{Type: EventKeyUp, Key: key})
		}

	case *sdl.MouseMotionEvent:
		i.dx += int(e.XRel)
		i.dy += int(e.YRel)
		i.events = append(i.events, Event{Type: EventMouseMove, DX: int(e.XRel), DY: int(e.YRel)})

	case *sdl.MouseButtonEvent:
		if e.Type != sdl.MOUSEBUTTONDOWN {
			return
		}
		ev := Event{Type: EventMouseDown, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		i.events = append(i.events, ev)
		if e.Button == sdl.BUTTON_LEFT {
			i.click = &ev
		}

	case *sdl.MouseWheelEvent:
		i.wheel += int(e.Y)
		i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: int(e.Y)})
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Actions returns the actions triggered since Begin, in press order.
// Auto-repeat does not retrigger.
func (i *Input) Actions() []Action {
	return i.actions
}

// Quit reports whether a quit was requested.
func (i *Input) Quit() bool { return i.quit }

// Resized returns the newest window size if it changed this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool { return i.held[scancode] }

// Movement returns the fly axes from WASD, Space and LCtrl, each in
// [-1, 1], and whether Shift boost is held.
func (i *Input) Movement() (forward, right, up float32, boost bool) {
	axis := func(pos, neg sdl.Scancode) float32 {
		var v float32
		if i.held[pos] {
			v++
		}
		if i.held[neg] {
			v--
		}
		return v
	}
	forward = axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right = axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up = axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LCTRL)
	boost = i.held[sdl.SCANCODE_LSHIFT] || i.held[sdl.SCANCODE_RSHIFT]
	return
}

// Clicked returns the last left click of this frame in window pixels.
func (i *Input) Clicked() (x, y int, ok bool) {
	if i.click == nil {
		return 0, 0, false
	}
	return i.click.MouseX, i.click.MouseY, true
}

// MouseDelta returns the relative motion accumulated this frame.
func (i *Input) MouseDelta() (dx, dy float32) { return float32(i.dx), float32(i.dy) }

// Wheel returns the vertical scroll accumulated this frame.
func (i *Input) Wheel() float32 { return float32(i.wheel) }
