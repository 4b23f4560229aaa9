package display

import (
	"image"
	"image/color"

	"github.com/wippyai/ev3dc/errors"
)

// Screen geometry
const (
	Width  = 178
	Height = 128
	Pixels = Width * Height
)

// Bitmap is a row-major Width x Height image with one byte per pixel,
// 1 for set and 0 for clear.
type Bitmap []uint8

// NewBitmap returns a clear bitmap.
func NewBitmap() Bitmap {
	return make(Bitmap, Pixels)
}

// Set sets pixel (x, y) to v.
func (b Bitmap) Set(x, y int, v uint8) {
	b[y*Width+x] = v
}

// At returns pixel (x, y).
func (b Bitmap) At(x, y int) uint8 {
	return b[y*Width+x]
}

// Validate checks dimensions and that every pixel is 0 or 1.
func (b Bitmap) Validate() error {
	if len(b) != Pixels {
		return errors.DimensionMismatch(errors.PhaseImage, len(b), Pixels)
	}
	for i, p := range b {
		if p > 1 {
			return errors.New(errors.PhaseImage, errors.KindInvalidValue).
				Value(p).
				Detail("pixel (%d, %d) is %d, expect 0 or 1", i%Width, i/Width, p).
				Build()
		}
	}
	return nil
}

// FromImage converts img to a bitmap. Pixels whose luminance is below
// threshold (0-255) are set. img must be exactly Width x Height.
func FromImage(img image.Image, threshold uint8) (Bitmap, error) {
	bounds := img.Bounds()
	if bounds.Dx() != Width || bounds.Dy() != Height {
		return nil, errors.New(errors.PhaseImage, errors.KindDimensionMismatch).
			Value(bounds.Size()).
			Detail("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Width, Height).
			Build()
	}

	bm := NewBitmap()
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			if gray.Y < threshold {
				bm.Set(x, y, 1)
			}
		}
	}
	return bm, nil
}
