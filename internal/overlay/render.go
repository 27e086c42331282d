package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"gauge-sensor/internal/field"
	"gauge-sensor/internal/gauge"
)

var (
	centerColor = color.RGBA{255, 0, 0, 255}   // detected center marker
	circleColor = color.RGBA{0, 255, 0, 255}   // selected gauge circle
	needleColor = color.RGBA{0, 255, 0, 255}   // detected needle ray
	bandColor   = color.RGBA{80, 80, 255, 255} // needle search band limits
)

// renderCenter draws the center-detection result over the brightness field:
// the selected circle in green, a red center marker with crosshair, and the
// next few candidates colored along a cold-to-warm ramp by relative score.
func renderCenter(f *field.Field, geom gauge.Geometry, candidates []gauge.CircleCandidate) image.Image {
	img := toRGBA(f)

	// Runner-up candidates first so the winner draws on top. The ramp runs
	// from blue (weakest of the shown set) to warm red (closest rival).
	const shown = 3
	rivals := candidates
	if len(rivals) > 0 {
		rivals = rivals[1:]
	}
	if len(rivals) > shown {
		rivals = rivals[:shown]
	}
	for i, c := range rivals {
		t := 0.0
		if len(rivals) > 1 {
			t = float64(i) / float64(len(rivals)-1)
		}
		// Hue 20° (warm) for the strongest rival down to 240° (blue).
		ramp := colorful.Hsv(20+220*t, 0.9, 1.0)
		cr, cg, cb := ramp.RGB255()
		drawCircle(img, c.CenterX, c.CenterY, c.Radius, color.RGBA{cr, cg, cb, 255})
	}

	drawCircle(img, geom.CenterX, geom.CenterY, geom.Radius, circleColor)
	drawCrosshair(img, geom.CenterX, geom.CenterY, 20, centerColor)
	return img
}

// renderNeedle draws the needle ray and the radial search band it was found
// in. The ray uses the same Y-inverted sampling convention as the detector,
// so the overlay matches what was actually scanned.
func renderNeedle(f *field.Field, geom gauge.Geometry, needle gauge.NeedleAngle) image.Image {
	img := toRGBA(f)

	endRadius := int(0.75 * float64(geom.Radius))
	startRadius := max(5, endRadius/8)
	drawCircle(img, geom.CenterX, geom.CenterY, startRadius, bandColor)
	drawCircle(img, geom.CenterX, geom.CenterY, endRadius, bandColor)

	rad := needle.AngleDeg * math.Pi / 180
	endX := int(float64(geom.CenterX) + float64(endRadius)*math.Cos(rad))
	endY := int(float64(geom.CenterY) - float64(endRadius)*math.Sin(rad))
	drawLine(img, geom.CenterX, geom.CenterY, endX, endY, needleColor)

	drawCrosshair(img, geom.CenterX, geom.CenterY, 10, centerColor)
	return img
}

// toRGBA expands the grayscale field into a drawable RGBA canvas.
func toRGBA(f *field.Field) *image.RGBA {
	gray := f.ToGray()
	img := image.NewRGBA(gray.Bounds())
	draw.Draw(img, gray.Bounds(), gray, image.Point{}, draw.Src)
	return img
}

// drawCircle plots a circle outline with the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		setIfInside(img, cx+x, cy+y, c)
		setIfInside(img, cx+y, cy+x, c)
		setIfInside(img, cx-y, cy+x, c)
		setIfInside(img, cx-x, cy+y, c)
		setIfInside(img, cx-x, cy-y, c)
		setIfInside(img, cx-y, cy-x, c)
		setIfInside(img, cx+y, cy-x, c)
		setIfInside(img, cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawLine plots a line by parametric stepping, one step per pixel of the
// longer axis.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		setIfInside(img, x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x1) + t*float64(x2-x1)))
		y := int(math.Round(float64(y1) + t*float64(y2-y1)))
		setIfInside(img, x, y, c)
	}
}

func drawCrosshair(img *image.RGBA, cx, cy, arm int, c color.RGBA) {
	drawLine(img, cx-arm, cy, cx+arm, cy, c)
	drawLine(img, cx, cy-arm, cx, cy+arm, c)
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
