package renderer

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scilla/internal/assets"
	"github.com/Faultbox/scilla/internal/engine/camera"
	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/gpu/gputest"
	"github.com/Faultbox/scilla/internal/engine/model/modeltest"
	"github.com/Faultbox/scilla/internal/engine/scene"
	"github.com/Faultbox/scilla/internal/engine/shader"
	"github.com/Faultbox/scilla/internal/engine/terrain"
	"github.com/Faultbox/scilla/internal/engine/vegetation"
)

type fakeShaders map[string]*gputest.Shader

func newFakeShaders() fakeShaders {
	s := make(fakeShaders)
	for _, name := range shader.Names() {
		s[name] = gputest.NewShader()
	}
	return s
}

func (f fakeShaders) Shader(name string) gpu.Shader { return f[name] }

func newScene(t *testing.T, dev *gputest.Device) *scene.Scene {
	t.Helper()
	dir := t.TempDir()
	modeltest.Write(t, filepath.Join(dir, "tree.gltf"), modeltest.Triangle{})

	params := terrain.DefaultParams()
	params.Octaves = 2
	params.PowerCurve = 1
	params.HeightMultiplier = 10

	s := scene.New(dev, assets.NewCache(dev, dir), scene.Config{
		Width: 16, Depth: 16,
		Terrain: params,
		Bands:   []scene.BandTextures{{Name: "grass"}, {Name: "rock"}, {Name: "snow"}},
		Vegetation: []vegetation.Layer{{
			Name: "tree", Model: "tree.gltf", Count: 10,
			MinHeight: -1, MaxHeight: 50, ScaleMin: 1, ScaleMax: 1,
		}},
		Objects: []scene.ObjectConfig{{Model: "tree.gltf"}},
	})
	require.NoError(t, s.Initialize())
	return s
}

func TestNewSetsViewportAndCameraBlock(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, newFakeShaders(), DefaultConfig(800, 600))
	require.NoError(t, err)

	assert.Equal(t, [2]int32{800, 600}, dev.ViewportSize)
	assert.Equal(t, gpu.DepthLess, dev.Depth)
	assert.Equal(t, r.ubo.ID(), dev.UniformBlocks[camera.BindingPoint])

	r.Close()
	assert.Zero(t, dev.Live())
}

func TestResizeIgnoresMinimized(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, newFakeShaders(), DefaultConfig(800, 600))
	require.NoError(t, err)

	r.Resize(0, 0)
	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	r.Resize(1024, 768)
	assert.Equal(t, [2]int32{1024, 768}, dev.ViewportSize)
}

func TestRenderPassOrder(t *testing.T) {
	dev := gputest.NewDevice()
	s := newScene(t, dev)
	shaders := newFakeShaders()
	r, err := New(dev, shaders, DefaultConfig(640, 480))
	require.NoError(t, err)

	dev.ResetDraws()
	require.NoError(t, r.Render(s))
	assert.Equal(t, 1, dev.Clears)

	require.Len(t, dev.Draws, 5)
	assert.Equal(t, s.Terrain.IndexCount(), dev.Draws[0].Count, "terrain first")
	assert.Equal(t, int32(3), dev.Draws[1].Count, "static object")
	assert.Zero(t, dev.Draws[1].Instances)
	assert.Equal(t, int32(s.Vegetation.Total()), dev.Draws[2].Instances, "vegetation")
	assert.Equal(t, int32(36), dev.Draws[3].Count, "light cube")
	assert.False(t, dev.Draws[4].Indexed, "sky last")
	assert.Equal(t, gpu.DepthLessEqual, dev.Draws[4].Depth)

	for _, name := range shader.Names() {
		assert.Equal(t, 1, shaders[name].Uses, name)
	}
	tr := shaders[shader.Terrain]
	assert.Equal(t, true, tr.Uniforms["enableNormalMapping"])
	assert.Equal(t, float32(0.1), tr.Uniforms["tiling"])
	assert.Contains(t, tr.Uniforms, "light.direction")
	assert.Contains(t, shaders[shader.Object].Uniforms, "normalMatrix")
	assert.Contains(t, shaders[shader.Instanced].Uniforms, "pointLight.position")
	assert.Equal(t, s.PointLight.Color, shaders[shader.Light].Uniforms["lightColor"])

	ubo := dev.Buffers[r.ubo.ID()]
	assert.Len(t, ubo.Data, camera.DataSize)
}

func TestTerrainTilingRepeatsPerCell(t *testing.T) {
	dev := gputest.NewDevice()
	shaders := newFakeShaders()
	r, err := New(dev, shaders, DefaultConfig(640, 480))
	require.NoError(t, err)
	s := newScene(t, dev)

	require.NoError(t, r.Render(s))

	tr := shaders[shader.Terrain]
	assert.Equal(t, mgl32.Vec2{16, 16}, tr.Uniforms["gridSize"])
	tiling, ok := tr.Uniforms["tiling"].(float32)
	require.True(t, ok)
	grid, ok := tr.Uniforms["gridSize"].(mgl32.Vec2)
	require.True(t, ok)

	// sample coordinate at the far corner, as the fragment shader forms it
	mesh := terrain.BuildMesh(s.Heightfield)
	uv := mesh.Vertices[len(mesh.Vertices)-1].TexCoord
	far := mgl32.Vec2{uv.X() * grid.X(), uv.Y() * grid.Y()}.Mul(tiling)
	// 15 cells per side at 0.1 repeats per cell
	assert.InDelta(t, 1.5, far.X(), 1e-5)
	assert.InDelta(t, 1.5, far.Y(), 1e-5)
}

func TestToggles(t *testing.T) {
	dev := gputest.NewDevice()
	shaders := newFakeShaders()
	r, err := New(dev, shaders, DefaultConfig(640, 480))
	require.NoError(t, err)

	assert.True(t, r.ToggleWireframe())
	assert.True(t, dev.Wireframe)
	assert.False(t, r.ToggleWireframe())
	assert.False(t, dev.Wireframe)

	assert.False(t, r.ToggleNormalMapping())
	s := newScene(t, dev)
	require.NoError(t, r.Render(s))
	assert.Equal(t, false, shaders[shader.Terrain].Uniforms["enableNormalMapping"])
}
