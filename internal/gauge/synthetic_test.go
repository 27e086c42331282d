package gauge

import (
	"math"
	"testing"

	"gauge-sensor/internal/field"
)

// makeField builds a brightness field from a per-pixel function.
func makeField(t *testing.T, width, height int, brightness func(x, y int) uint8) *field.Field {
	t.Helper()

	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pix[y*width+x] = brightness(x, y)
		}
	}
	f, err := field.New(width, height, pix)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

// flatField builds a field of uniform brightness.
func flatField(t *testing.T, width, height int, value uint8) *field.Field {
	t.Helper()
	return makeField(t, width, height, func(int, int) uint8 { return value })
}

// dialBrightness returns the brightness function of a synthetic gauge face
// centered at (cx, cy): a bright face inside a dark bezel ring, on a
// mid-gray background.
func dialBrightness(cx, cy int) func(x, y int) uint8 {
	return func(x, y int) uint8 {
		dx := float64(x - cx)
		dy := float64(y - cy)
		r := math.Hypot(dx, dy)
		switch {
		case r < 57:
			return 230
		case r <= 70:
			return 40
		default:
			return 150
		}
	}
}

// paintRay darkens pixels along a ray from (cx, cy) at the given angle,
// using the same Y-inverted sampling convention as the detector: one pixel
// per unit radius, coordinates truncated.
func paintRay(t *testing.T, f *field.Field, cx, cy int, angleDeg float64, length int, value uint8) *field.Field {
	t.Helper()

	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	width, height := f.Width(), f.Height()
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pix[y*width+x] = f.At(x, y)
		}
	}
	for r := 0; r <= length; r++ {
		x := int(float64(cx) + float64(r)*cos)
		y := int(float64(cy) - float64(r)*sin)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		pix[y*width+x] = value
	}

	out, err := field.New(width, height, pix)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return out
}
