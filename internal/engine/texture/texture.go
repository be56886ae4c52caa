// Package texture decodes image files and uploads them as GPU textures.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/scilla/internal/engine/gpu"
)

// Options controls decoding and upload.
type Options struct {
	SRGB           bool // color data (albedo); false for normal/roughness/AO maps
	FlipVertically bool // image rows top-down, GL expects bottom-up
	Mipmaps        bool
	Wrap           gpu.Wrap
}

// ColorOptions is the preset for albedo maps.
func ColorOptions() Options {
	return Options{SRGB: true, FlipVertically: true, Mipmaps: true}
}

// DataOptions is the preset for linear data maps (normal, roughness, AO).
func DataOptions() Options {
	return Options{FlipVertically: true, Mipmaps: true}
}

// Decode reads any registered image format (PNG, JPEG, BMP, TIFF).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ToRGBA converts img to tightly packed RGBA with its origin at (0, 0).
func ToRGBA(img image.Image, flip bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flip {
		flipRows(rgba)
	}
	return rgba
}

func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Upload creates a texture from an RGBA image.
func Upload(dev gpu.Device, img *image.RGBA, opts Options) (*gpu.Texture2D, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}
	tex := gpu.NewTexture2D(dev)
	if err := tex.Generate(); err != nil {
		return nil, err
	}
	err := tex.SetImage(int32(b.Dx()), int32(b.Dy()), img.Pix, gpu.TextureOptions{
		SRGB:    opts.SRGB,
		Mipmaps: opts.Mipmaps,
		Wrap:    opts.Wrap,
	})
	if err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}

// Load decodes the file at path and uploads it.
func Load(dev gpu.Device, path string, opts Options) (*gpu.Texture2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Upload(dev, ToRGBA(img, opts.FlipVertically), opts)
}

// Solid creates a 1x1 texture of a single color, used when a map is missing
// but the shader expects one.
func Solid(dev gpu.Device, c color.RGBA, srgb bool) (*gpu.Texture2D, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return Upload(dev, img, Options{SRGB: srgb})
}
