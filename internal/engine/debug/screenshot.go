// Package debug provides frame capture for inspecting renders.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/texture"
)

// ScreenshotCapture writes the current frame to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Capture reads back the framebuffer and saves it.
func (sc *ScreenshotCapture) Capture(dev gpu.Device, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("empty viewport %dx%d", width, height)
	}
	return sc.CaptureFromPixels(dev.ReadPixels(int32(width), int32(height)), width, height)
}

// CaptureFromPixels saves raw RGBA pixels with width*height*4 bytes.
// The rows are flipped since OpenGL has its origin at the bottom left.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	raw := &image.RGBA{Pix: pixels, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	return sc.CaptureFromImage(texture.ToRGBA(raw, true))
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename returns the path the next capture is written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
