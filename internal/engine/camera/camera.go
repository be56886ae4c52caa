// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is what the renderer needs from any camera.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	FOV() float32
}

// Projection holds the perspective parameters shared by all cameras.
type Projection struct {
	Near, Far float32
}

// DefaultProjection covers a 1024-cell terrain seen from above.
func DefaultProjection() Projection {
	return Projection{Near: 0.1, Far: 5000}
}

// Matrix returns the perspective matrix for a camera and viewport.
func (p Projection) Matrix(c Camera, width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV()), aspect, p.Near, p.Far)
}

// FlyCamera is a free-look camera steered by mouse deltas and moved along
// its own axes.
type FlyCamera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	Yaw   float32 // degrees; 0 looks down -Z
	Pitch float32 // degrees, clamped to +-89

	Sensitivity float32 // degrees per pixel of mouse motion
	Speed       float32 // units per second
	BoostFactor float32
	fov         float32
}

// NewFlyCamera returns a camera at pos looking down -Z.
func NewFlyCamera(pos mgl32.Vec3) *FlyCamera {
	c := &FlyCamera{
		position:    pos,
		Sensitivity: 0.1,
		Speed:       40,
		BoostFactor: 3,
		fov:         45,
	}
	c.updateVectors()
	return c
}

func (c *FlyCamera) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	c.front = mgl32.Vec3{
		math32.Sin(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		-math32.Cos(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	c.up = c.right.Cross(c.front)
}

// Look applies a mouse delta in pixels; positive dy looks up.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity
	c.Pitch = min(max(c.Pitch, -89), 89)
	c.updateVectors()
}

// Move translates along front, right and world up. Each axis is -1..1;
// boost multiplies the speed.
func (c *FlyCamera) Move(forward, right, up float32, boost bool, dt float32) {
	speed := c.Speed * dt
	if boost {
		speed *= c.BoostFactor
	}
	c.position = c.position.
		Add(c.front.Mul(forward * speed)).
		Add(c.right.Mul(right * speed)).
		Add(mgl32.Vec3{0, up * speed, 0})
}

// Zoom narrows the field of view for positive delta, clamped to [1, 45].
func (c *FlyCamera) Zoom(delta float32) {
	c.fov = min(max(c.fov-delta, 1), 45)
}

// SetPosition moves the camera without changing its orientation.
func (c *FlyCamera) SetPosition(p mgl32.Vec3) { c.position = p }

// LookAt turns the camera toward target.
func (c *FlyCamera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Pitch = mgl32.RadToDeg(math32.Asin(d.Y()))
	c.Yaw = mgl32.RadToDeg(math32.Atan2(d.X(), -d.Z()))
	c.updateVectors()
}

func (c *FlyCamera) Position() mgl32.Vec3 { return c.position }
func (c *FlyCamera) Front() mgl32.Vec3    { return c.front }
func (c *FlyCamera) Right() mgl32.Vec3    { return c.right }
func (c *FlyCamera) FOV() float32         { return c.fov }

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        600.0,
		RotationX:       0.6,
		MinDistance:     20.0,
		MaxDistance:     3000.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosX := math32.Cos(c.RotationX)
	return c.Center.Add(mgl32.Vec3{
		c.Distance * cosX * math32.Sin(c.RotationY),
		c.Distance * math32.Sin(c.RotationX),
		c.Distance * cosX * math32.Cos(c.RotationY),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// FOV is fixed for the orbit camera.
func (c *OrbitCamera) FOV() float32 { return 45 }

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the center point on the XZ plane relative to the
// current yaw.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sin, cos := math32.Sincos(c.RotationY)
	c.Center = c.Center.Add(mgl32.Vec3{
		(-sin*forward + cos*right) * speed,
		up * speed,
		(-cos*forward - sin*right) * speed,
	})
}

// FitToBounds centers the orbit on a bounding box and backs off to see it.
func (c *OrbitCamera) FitToBounds(lo, hi mgl32.Vec3) {
	c.Center = lo.Add(hi).Mul(0.5)
	size := max(hi.X()-lo.X(), hi.Z()-lo.Z())
	c.Distance = min(max(size*0.6, c.MinDistance), c.MaxDistance)
	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0
}
