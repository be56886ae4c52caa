package texture

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

	"github.com/Faultbox/scilla/internal/engine/gpu/gputest"
)

func twoRowImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestToRGBAFlip(t *testing.T) {
	src := twoRowImage()

	straight := ToRGBA(src, false)
	assert.Equal(t, uint8(255), straight.Pix[0], "top row red")

	flipped := ToRGBA(src, true)
	assert.Equal(t, uint8(0), flipped.Pix[0])
	assert.Equal(t, uint8(255), flipped.Pix[2], "top row now blue")
	assert.Equal(t, uint8(255), flipped.Pix[flipped.Stride], "bottom row now red")
}

func TestToRGBASubImageOrigin(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.SetRGBA(2, 2, color.RGBA{G: 200, A: 255})
	sub := big.SubImage(image.Rect(2, 2, 4, 4))

	rgba := ToRGBA(sub, false)
	assert.Equal(t, image.Rect(0, 0, 2, 2), rgba.Bounds())
	assert.Equal(t, uint8(200), rgba.Pix[1])
}

func TestLoadPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, twoRowImage()))
	path := filepath.Join(t.TempDir(), "albedo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	dev := gputest.NewDevice()
	tex, err := Load(dev, path, ColorOptions())
	require.NoError(t, err)

	w, h := tex.Size()
	assert.Equal(t, int32(2), w)
	assert.Equal(t, int32(2), h)
	rec := dev.Textures[tex.ID()]
	require.NotNil(t, rec)
	assert.True(t, rec.Options.SRGB)
	assert.True(t, rec.Options.Mipmaps)
}

func TestLoadErrors(t *testing.T) {
	dev := gputest.NewDevice()

	_, err := Load(dev, filepath.Join(t.TempDir(), "missing.png"), DataOptions())
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Load(dev, bad, DataOptions())
	assert.ErrorContains(t, err, "decode")
	assert.Zero(t, dev.Live())
}

func TestSolid(t *testing.T) {
	dev := gputest.NewDevice()
	tex, err := Solid(dev, color.RGBA{R: 128, G: 128, B: 255, A: 255}, false)
	require.NoError(t, err)
	assert.NotZero(t, tex.ID())
	assert.False(t, dev.Textures[tex.ID()].Options.SRGB)
}
