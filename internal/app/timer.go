package app

import "time"

// maxDelta caps a frame step so a stall (window drag, breakpoint) does not
// teleport the camera.
const maxDelta = 0.25

// FrameTimer measures frame deltas and a once-per-second FPS average.
type FrameTimer struct {
	now    func() time.Time
	last   time.Time
	window time.Time
	frames int
	fps    float64
}

// NewFrameTimer starts timing from now. A nil clock uses time.Now.
func NewFrameTimer(now func() time.Time) *FrameTimer {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &FrameTimer{now: now, last: t, window: t}
}

// Tick returns the seconds since the previous tick. updated is true when a
// new FPS value was computed on this tick.
func (t *FrameTimer) Tick() (dt float32, updated bool) {
	now := t.now()
	dt = float32(now.Sub(t.last).Seconds())
	t.last = now
	if dt < 0 {
		dt = 0
	}
	if dt > maxDelta {
		dt = maxDelta
	}

	t.frames++
	if elapsed := now.Sub(t.window); elapsed >= time.Second {
		t.fps = float64(t.frames) / elapsed.Seconds()
		t.frames = 0
		t.window = now
		updated = true
	}
	return dt, updated
}

// FPS returns the last completed one-second average.
func (t *FrameTimer) FPS() float64 { return t.fps }
