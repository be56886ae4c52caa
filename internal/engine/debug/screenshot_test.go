package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scilla/internal/engine/gpu/gputest"
)

func TestCaptureFlipsRows(t *testing.T) {
	dev := gputest.NewDevice()
	// 1x2 frame: bottom row red, top row blue.
	dev.Frame = []byte{255, 0, 0, 255, 0, 0, 255, 255}

	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "scilla")
	sc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	path, err := sc.Capture(dev, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scilla_2026-03-01_12-30-00.000.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, color.RGBAModel.Convert(img.At(0, 1)))
}

func TestCaptureRejectsBadInput(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	_, err := sc.Capture(gputest.NewDevice(), 0, 10)
	assert.Error(t, err)

	_, err = sc.CaptureFromPixels(make([]byte, 3), 1, 1)
	assert.ErrorContains(t, err, "size mismatch")
}
