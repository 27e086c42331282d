package gauge

import (
	"errors"
	"math"

	"gauge-sensor/internal/field"
)

// ErrNoNeedle is returned when the angular scan produced no angle with a
// single in-bounds sample, meaning there is nothing to read this cycle.
// The failure is per-reading and recoverable; callers report an
// unavailable/stale state and try again on the next cycle.
var ErrNoNeedle = errors.New("no needle detected")

// AngleScore is one entry of the coarse angular scan: the average brightness
// along the ray at AngleDeg, over Samples in-bounds pixels. Lower scores are
// darker and therefore more needle-like.
type AngleScore struct {
	AngleDeg float64 `json:"angle_deg"`
	Score    float64 `json:"score"`
	Samples  int     `json:"samples"`
}

// NeedleAngle is a detected needle position.
//
// AngleDeg is in the mathematical convention with image Y inverted:
// 0° points right, 90° points toward the top of the image, normalized to
// [0, 360). Score is the average brightness along the winning ray.
type NeedleAngle struct {
	AngleDeg float64 `json:"angle_deg"`
	Score    float64 `json:"score"`

	// LowConfidence is set when the winning ray is brighter than the
	// configured limit. The angle is still usable; the flag is a warning,
	// not a failure.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// NeedleDetector finds the needle's angular position within a detected
// gauge geometry.
//
// The needle is assumed to be the darkest radial feature on the face. The
// detector sums brightness along rays cast from the gauge center, keeps the
// darkest direction from a coarse 360° sweep, then refines it with a finer
// local scan.
type NeedleDetector struct {
	params SearchParams
	diag   DiagnosticSink
}

// NewNeedleDetector builds a detector with the given (pre-validated)
// tuning. A nil sink disables diagnostics.
func NewNeedleDetector(params SearchParams, diag DiagnosticSink) *NeedleDetector {
	if diag == nil {
		diag = NopSink{}
	}
	return &NeedleDetector{params: params, diag: diag}
}

// Detect scans for the needle inside the given geometry.
//
// The search band runs from just outside the hub (center markings and the
// needle pivot are noise, not signal) out to NeedleLengthFrac of the gauge
// radius. Rays are sampled at every pixel radius with the image Y axis
// inverted, so angle 90° points toward the top of the image:
//
//	x = cx + r·cos θ
//	y = cy − r·sin θ
//
// Detect returns ErrNoNeedle when no ray in the coarse sweep had an
// in-bounds sample (a geometry entirely outside the field).
func (d *NeedleDetector) Detect(f *field.Field, geom Geometry) (*NeedleAngle, error) {
	p := d.params

	endRadius := int(float64(geom.Radius) * p.NeedleLengthFrac)
	startRadius := max(5, endRadius/8)

	bestAngle := 0.0
	bestScore := math.Inf(1)
	found := false
	scores := make([]AngleScore, 0, int(360/p.CoarseStepDeg))

	for angle := 0.0; angle < 360; angle += p.CoarseStepDeg {
		score, samples := d.rayScore(f, geom, angle, startRadius, endRadius, 1)
		if samples == 0 {
			continue
		}
		scores = append(scores, AngleScore{AngleDeg: angle, Score: score, Samples: samples})
		if score < bestScore {
			bestScore = score
			bestAngle = angle
			found = true
		}
	}

	d.diag.CoarseScan(f, geom, scores)

	if !found {
		return nil, ErrNoNeedle
	}

	refined := d.refine(f, geom, bestAngle, endRadius, bestScore)
	refined.LowConfidence = refined.Score > p.BrightLimit

	d.diag.NeedleRefined(f, geom, refined)
	return &refined, nil
}

// refine re-scans ±RefineSpanDeg around the coarse best angle in
// RefineStepDeg increments, with a denser radial step over a band that
// starts closer to the hub. Falls back to the coarse result when the
// refinement window yields no valid samples (degenerate tiny geometry).
func (d *NeedleDetector) refine(f *field.Field, geom Geometry, coarseAngle float64, endRadius int, coarseScore float64) NeedleAngle {
	p := d.params

	best := NeedleAngle{AngleDeg: coarseAngle, Score: coarseScore}
	bestScore := math.Inf(1)

	steps := int(math.Round(p.RefineSpanDeg / p.RefineStepDeg))
	for i := -steps; i <= steps; i++ {
		angle := coarseAngle + float64(i)*p.RefineStepDeg
		score, samples := d.rayScore(f, geom, angle, 8, endRadius, 2)
		if samples == 0 {
			continue
		}
		if score < bestScore {
			bestScore = score
			best = NeedleAngle{AngleDeg: normalizeDeg(angle), Score: score}
		}
	}
	return best
}

// rayScore averages brightness along the ray at angleDeg, sampling radii
// [startRadius, endRadius) in radiusStep increments. Returns the average
// and the number of in-bounds samples; a ray entirely outside the field
// returns (0, 0).
func (d *NeedleDetector) rayScore(f *field.Field, geom Geometry, angleDeg float64, startRadius, endRadius, radiusStep int) (float64, int) {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	var sum float64
	samples := 0
	for r := startRadius; r < endRadius; r += radiusStep {
		x := int(float64(geom.CenterX) + float64(r)*cos)
		y := int(float64(geom.CenterY) - float64(r)*sin)
		if !f.InBounds(x, y) {
			continue
		}
		sum += float64(f.At(x, y))
		samples++
	}
	if samples == 0 {
		return 0, 0
	}
	return sum / float64(samples), samples
}

// normalizeDeg wraps an angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
