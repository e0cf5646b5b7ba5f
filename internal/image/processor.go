package image

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the decoded size of a single original.
const DefaultMaxPixels = 100_000_000

// Processor turns decoded originals into fixed-size JPEG thumbnails.
type Processor struct {
	Quality   int
	Filter    resize.InterpolationFunction
	MaxPixels int64
}

func NewProcessor(quality int) *Processor {
	return &Processor{
		Quality:   quality,
		Filter:    resize.Lanczos3,
		MaxPixels: DefaultMaxPixels,
	}
}

// Decode reads the header first and refuses originals whose pixel count is
// over MaxPixels before any bitmap is allocated.
func (p *Processor) Decode(r io.Reader) (image.Image, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode %s image: empty bounds", format)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); p.MaxPixels > 0 && pixels > p.MaxPixels {
		return nil, fmt.Errorf("decode %s image: %dx%d exceeds %d pixels", format, cfg.Width, cfg.Height, p.MaxPixels)
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode %s image: empty bounds", format)
	}
	return img, nil
}

// FillCrop crops the largest centered square out of img and scales it to
// size×size. The result is never letterboxed.
func (p *Processor) FillCrop(img image.Image, size int) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())

	square := p.CropCenter(img, side, side)
	if side == size {
		return square
	}
	return resize.Resize(uint(size), uint(size), square, p.Filter)
}

func (p *Processor) CropCenter(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	offX := b.Min.X + (b.Dx()-width)/2
	offY := b.Min.Y + (b.Dy()-height)/2

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(offX, offY), draw.Src)
	return dst
}

func (p *Processor) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail runs decode, fill-crop and encode in one go.
func (p *Processor) Thumbnail(r io.Reader, size int) ([]byte, error) {
	img, err := p.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.EncodeJPEG(p.FillCrop(img, size))
}
