package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomanager/internal/testutil"
)

func TestProcessor_FillCropLandscape(t *testing.T) {
	p := NewProcessor(80)

	out := p.FillCrop(testutil.Photo(800, 400), 100)
	require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())

	// the center of a landscape crop keeps both halves of the split
	r, _, b, _ := out.At(5, 50).RGBA()
	assert.Greater(t, r, b)
	r, _, b, _ = out.At(95, 50).RGBA()
	assert.Greater(t, b, r)
}

func TestProcessor_FillCropPortrait(t *testing.T) {
	p := NewProcessor(80)

	out := p.FillCrop(testutil.Photo(300, 900), 120)
	assert.Equal(t, image.Rect(0, 0, 120, 120), out.Bounds())
}

func TestProcessor_FillCropUpscales(t *testing.T) {
	p := NewProcessor(80)

	out := p.FillCrop(testutil.Photo(40, 30), 400)
	assert.Equal(t, image.Rect(0, 0, 400, 400), out.Bounds())
}

func TestProcessor_Thumbnail(t *testing.T) {
	p := NewProcessor(80)

	data, err := p.Thumbnail(bytes.NewReader(testutil.PNG(t, 640, 480)), 400)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestProcessor_DecodeGarbage(t *testing.T) {
	p := NewProcessor(80)

	_, err := p.Thumbnail(strings.NewReader("definitely not an image"), 400)
	require.Error(t, err)
}

func TestProcessor_CropCenterNoop(t *testing.T) {
	p := NewProcessor(80)
	img := testutil.Photo(50, 50)

	assert.Same(t, img, p.CropCenter(img, 50, 50))
}

func TestProcessor_ExtremeAspectStaysSmall(t *testing.T) {
	p := NewProcessor(80)

	sliver := image.NewGray(image.Rect(0, 0, 1, 2000))
	for y := 0; y < 2000; y++ {
		sliver.SetGray(0, y, color.Gray{Y: uint8(y)})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sliver))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	data, err := p.Thumbnail(&buf, 400)
	runtime.ReadMemStats(&after)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(32<<20))
}

func TestProcessor_RejectsOversizedOriginal(t *testing.T) {
	p := NewProcessor(80)
	p.MaxPixels = 100

	_, err := p.Thumbnail(bytes.NewReader(testutil.PNG(t, 20, 20)), 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 100 pixels")

	p.MaxPixels = 400
	_, err = p.Thumbnail(bytes.NewReader(testutil.PNG(t, 20, 20)), 400)
	require.NoError(t, err)
}
