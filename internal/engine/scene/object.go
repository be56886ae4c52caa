package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/model"
)

// Object places a shared model in the world.
type Object struct {
	Model    *model.Model
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler degrees, applied Y then X then Z
	Scale    mgl32.Vec3
}

// Transform returns translate * rotY * rotX * rotZ * scale.
func (o Object) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(o.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(o.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(o.Rotation.Z()))).
		Mul4(mgl32.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z()))
}

// NormalMatrix is the inverse transpose of the upper 3x3, correct under
// non-uniform scale.
func (o Object) NormalMatrix() mgl32.Mat3 {
	return o.Transform().Mat3().Inv().Transpose()
}
