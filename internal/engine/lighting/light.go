package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
)

// DirectionalLight is the "light" uniform struct. Direction is the way the
// light travels.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Ambient   mgl32.Vec3
}

// Apply sets light.direction, light.color and light.ambient.
func (l DirectionalLight) Apply(shader gpu.Shader) {
	shader.SetVec3("light.direction", l.Direction)
	shader.SetVec3("light.color", l.Color)
	shader.SetVec3("light.ambient", l.Ambient)
}

// PointLight is a small local light drawn as a cube marker.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Scale    float32 // marker cube edge length
}

// DefaultPointLight is the marker of the demo scene.
func DefaultPointLight() PointLight {
	return PointLight{
		Position: mgl32.Vec3{1.2, 1, 2},
		Color:    mgl32.Vec3{1, 1, 1},
		Scale:    0.5,
	}
}

// Apply sets pointLight.position and pointLight.color.
func (p PointLight) Apply(shader gpu.Shader) {
	shader.SetVec3("pointLight.position", p.Position)
	shader.SetVec3("pointLight.color", p.Color)
}

// ModelMatrix places the marker cube.
func (p PointLight) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).
		Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))
}
