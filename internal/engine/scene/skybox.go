package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/lighting"
)

var skyboxVertices = []float32{
	// back
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,
	// left
	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,
	// right
	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,
	// front
	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,
	// top
	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,
	// bottom
	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// SkyboxVertexCount is the number of vertices drawn per frame.
const SkyboxVertexCount = 36

// Sky colors at full daylight and at night.
var (
	dayZenith    = mgl32.Vec3{0.18, 0.42, 0.85}
	dayHorizon   = mgl32.Vec3{0.65, 0.78, 0.92}
	nightZenith  = mgl32.Vec3{0.01, 0.01, 0.04}
	nightHorizon = mgl32.Vec3{0.05, 0.05, 0.10}
	sunColor     = mgl32.Vec3{1.0, 0.9, 0.7}
)

// Skybox is a unit cube drawn around the camera with a procedural sky.
type Skybox struct {
	dev gpu.Device
	vao *gpu.VertexArray
	vbo *gpu.VertexBuffer
}

// NewSkybox uploads the cube.
func NewSkybox(dev gpu.Device) (*Skybox, error) {
	s := &Skybox{
		dev: dev,
		vao: gpu.NewVertexArray(dev),
		vbo: gpu.NewVertexBuffer(dev, gpu.StorageStatic),
	}
	if err := s.upload(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *Skybox) upload() error {
	if err := s.vao.Generate(); err != nil {
		return err
	}
	if err := s.vbo.Generate(); err != nil {
		return err
	}
	if err := s.vbo.SetData(gpu.Bytes(skyboxVertices)); err != nil {
		return err
	}
	if err := s.vao.BindVertexBuffer(s.vbo, 0, 3*4); err != nil {
		return err
	}
	return s.vao.SetAttribFormat(0, 3, gpu.Float, false, 0, 0)
}

// Render draws the sky. The depth test is relaxed to less-or-equal while
// drawing, since the sky sits exactly on the far plane.
func (s *Skybox) Render(shader gpu.Shader, sun *lighting.Sun) {
	day := sun.Daylight()
	shader.SetVec3("sunDirection", sun.Direction().Mul(-1))
	shader.SetVec3("zenithColor", mix(nightZenith, dayZenith, day))
	shader.SetVec3("horizonColor", mix(nightHorizon, dayHorizon, day))
	shader.SetVec3("sunColor", sunColor)
	shader.SetFloat("sunSize", 0.002)

	if err := s.vao.Bind(); err != nil {
		return
	}
	s.dev.SetDepthFunc(gpu.DepthLessEqual)
	s.dev.DrawArrays(gpu.Triangles, 0, SkyboxVertexCount)
	s.dev.SetDepthFunc(gpu.DepthLess)
}

// Release frees the cube.
func (s *Skybox) Release() {
	s.vao.Release()
	s.vbo.Release()
}

func mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
