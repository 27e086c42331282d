package field

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Field is an immutable 2-D grid of 8-bit brightness samples.
//
// Samples are stored row-major: the value at (x, y) lives at index
// y*width + x. The zero value is not usable; construct Fields with New
// or FromImage.
type Field struct {
	width  int
	height int
	pix    []uint8
}

// New wraps raw row-major brightness samples in a Field.
//
// The pixel slice must contain exactly width*height samples. The Field
// takes ownership of the slice; callers must not modify it afterwards.
func New(width, height int, pix []uint8) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid field dimensions %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("pixel buffer has %d samples, want %d", len(pix), width*height)
	}
	return &Field{width: width, height: height, pix: pix}, nil
}

// FromImage converts a decoded image into a brightness field.
//
// Color input is reduced to luminance first. If blurRadius is positive, a
// Gaussian blur with that radius is applied before the grayscale conversion
// to suppress sensor noise and JPEG artifacts; pass 0 to analyze the image
// as-is.
//
// The source image is not retained.
func FromImage(img image.Image, blurRadius float64) *Field {
	if blurRadius > 0 {
		img = blur.Gaussian(img, blurRadius)
	}
	gray := effect.Grayscale(img)

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			// Grayscale output has R == G == B; any channel works.
			pix[y*width+x] = row[x*4]
		}
	}
	return &Field{width: width, height: height, pix: pix}
}

// Width returns the number of samples per row.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// At returns the brightness sample at (x, y).
// Coordinates must be in bounds; use InBounds to check first.
func (f *Field) At(x, y int) uint8 {
	return f.pix[y*f.width+x]
}

// InBounds reports whether (x, y) addresses a valid sample.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Crop returns a copy of the rectangular region at (x, y) with the given
// size, clamped to the field bounds.
//
// Unlike an erroring crop, out-of-range requests are adjusted rather than
// rejected: the origin is clamped into the field and the size shrunk to
// what remains. A request that leaves no area returns the field unchanged.
func (f *Field) Crop(x, y, width, height int) *Field {
	x = clamp(x, 0, f.width)
	y = clamp(y, 0, f.height)
	width = min(width, f.width-x)
	height = min(height, f.height-y)

	if width <= 0 || height <= 0 {
		return f
	}
	if x == 0 && y == 0 && width == f.width && height == f.height {
		return f
	}

	pix := make([]uint8, width*height)
	for row := 0; row < height; row++ {
		src := f.pix[(y+row)*f.width+x:]
		copy(pix[row*width:(row+1)*width], src[:width])
	}
	return &Field{width: width, height: height, pix: pix}
}

// ToGray renders the field as an *image.Gray, primarily for diagnostics.
func (f *Field) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+f.width], f.pix[y*f.width:(y+1)*f.width])
	}
	return img
}

// clamp constrains v to the range [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
