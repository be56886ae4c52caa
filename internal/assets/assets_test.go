package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/gpu/gputest"
	"github.com/Faultbox/scilla/internal/engine/material"
	"github.com/Faultbox/scilla/internal/engine/model/modeltest"
	"github.com/Faultbox/scilla/internal/engine/texture"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeTree(t *testing.T, dir string) {
	t.Helper()
	modeltest.Write(t, filepath.Join(dir, "models", "tree", "scene.gltf"),
		modeltest.Triangle{BaseColor: "textures/bark.png"})
	writePNG(t, filepath.Join(dir, "models", "tree", "textures", "bark.png"))
}

func TestLoadTextureCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "grass.png"))

	dev := gputest.NewDevice()
	c := NewCache(dev, dir)

	a, err := c.LoadTexture("textures/grass.png", texture.ColorOptions())
	require.NoError(t, err)
	b, err := c.LoadTexture("textures/grass.png", texture.ColorOptions())
	require.NoError(t, err)
	assert.Same(t, a, b)

	linear, err := c.LoadTexture("textures/grass.png", texture.DataOptions())
	require.NoError(t, err)
	assert.NotSame(t, a, linear, "color space is part of the key")

	clamped := texture.ColorOptions()
	clamped.Wrap = gpu.WrapClampToEdge
	edge, err := c.LoadTexture("textures/grass.png", clamped)
	require.NoError(t, err)
	assert.NotSame(t, a, edge, "wrap mode is part of the key")
	assert.Equal(t, gpu.WrapClampToEdge, dev.Textures[edge.ID()].Options.Wrap)

	unflipped := texture.ColorOptions()
	unflipped.FlipVertically = false
	up, err := c.LoadTexture("textures/grass.png", unflipped)
	require.NoError(t, err)
	assert.NotSame(t, a, up, "row order is part of the key")

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 4, misses)
	assert.Equal(t, 4, dev.Live())
}

func TestRootPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(low, "a.png"))
	writePNG(t, filepath.Join(high, "a.png"))

	c := NewCache(gputest.NewDevice(), low)
	c.AddRoot(high)

	p, err := c.Resolve("a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(high, "a.png"), p)
}

func TestResolveMissing(t *testing.T) {
	c := NewCache(gputest.NewDevice(), t.TempDir())
	_, err := c.Resolve("nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LoadModel("nope.gltf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadModelSharesTextures(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir)

	dev := gputest.NewDevice()
	c := NewCache(dev, dir)

	m1, err := c.LoadModel("models/tree/scene.gltf")
	require.NoError(t, err)
	m2, err := c.LoadModel("models/tree/scene.gltf")
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	require.Len(t, m1.Meshes, 1)
	gltfColor := texture.ColorOptions()
	gltfColor.FlipVertically = false
	mat := m1.Meshes[0].Material
	require.NotNil(t, mat)
	assert.True(t, mat.Has(material.Diffuse))

	tex, err := c.LoadTexture(filepath.Join(dir, "models", "tree", "textures", "bark.png"), gltfColor)
	require.NoError(t, err)
	assert.Same(t, mat.Texture(material.Diffuse), tex, "model textures go through the cache")

	textures, models := c.Len()
	assert.Equal(t, 1, textures)
	assert.Equal(t, 1, models)
}

func TestRelease(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir)

	dev := gputest.NewDevice()
	c := NewCache(dev, dir)
	_, err := c.LoadModel("models/tree/scene.gltf")
	require.NoError(t, err)
	require.NotZero(t, dev.Live())

	c.Release()
	assert.Zero(t, dev.Live())
	textures, models := c.Len()
	assert.Zero(t, textures)
	assert.Zero(t, models)
	hits, misses := c.Stats()
	assert.Zero(t, hits+misses)
}
