package gauge

import (
	"math"
	"sort"

	"gauge-sensor/internal/field"
)

// CircleCandidate is one scored position from the gauge center search.
//
// Candidates are generated in bulk during the grid scan, ranked by score,
// and discarded once a geometry has been selected. Score is the
// edge-strength measure: how sharply brightness drops from inside the
// candidate circle to outside it. Only positive scores are kept.
type CircleCandidate struct {
	CenterX int     `json:"cx"`
	CenterY int     `json:"cy"`
	Radius  int     `json:"radius"`
	Score   float64 `json:"score"`
}

// Geometry is the selected gauge face position used by needle detection.
type Geometry struct {
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
	Radius  int `json:"radius"`

	// Fallback is set when the center search produced no valid candidate
	// and the geometry degraded to the image center. Readings still
	// proceed; the flag is surfaced as a diagnostic.
	Fallback bool `json:"fallback,omitempty"`
}

// CenterDetector locates the circular gauge face in a brightness field.
//
// Gauges typically have a dark bezel around a bright face, producing a
// strong bright-inside/dark-outside transition at the bezel circle. The
// detector scans a coarse grid of candidate centers and radii and scores
// each circle by that transition; see SearchParams for the grid shape.
type CenterDetector struct {
	params SearchParams
}

// NewCenterDetector builds a detector with the given (pre-validated) tuning.
func NewCenterDetector(params SearchParams) *CenterDetector {
	return &CenterDetector{params: params}
}

// Detect scans the field for the gauge face and returns the selected
// geometry along with all positive-score candidates ranked best-first.
//
// Detect never fails: when no circle candidate scores above zero (a flat or
// featureless image), it falls back to the image geometric center with a
// radius of a quarter of the smaller dimension and sets Geometry.Fallback.
func (d *CenterDetector) Detect(f *field.Field) (Geometry, []CircleCandidate) {
	p := d.params
	width, height := f.Width(), f.Height()

	initialCX := width / 2
	initialCY := height / 2

	searchX := int(float64(width) * p.CenterSearchFrac)
	searchY := int(float64(height) * p.CenterSearchFrac)

	minDim := min(width, height)
	minRadius := int(float64(minDim) * p.MinRadiusFrac)
	maxRadius := int(float64(minDim) * p.MaxRadiusFrac)

	centerStep := max(2, min(searchX, searchY)/p.GridSteps)
	radiusStep := max(2, (maxRadius-minRadius)/p.GridSteps)

	var candidates []CircleCandidate
	best := CircleCandidate{}

	for cy := initialCY - searchY; cy <= initialCY+searchY; cy += centerStep {
		if cy < 0 || cy >= height {
			continue
		}
		for cx := initialCX - searchX; cx <= initialCX+searchX; cx += centerStep {
			if cx < 0 || cx >= width {
				continue
			}
			for radius := minRadius; radius <= maxRadius; radius += radiusStep {
				score := d.edgeStrength(f, cx, cy, radius)
				if score <= 0 {
					continue
				}
				candidates = append(candidates, CircleCandidate{
					CenterX: cx, CenterY: cy, Radius: radius, Score: score,
				})
				if score > best.Score {
					best = CircleCandidate{CenterX: cx, CenterY: cy, Radius: radius, Score: score}
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Geometry{
			CenterX:  initialCX,
			CenterY:  initialCY,
			Radius:   minDim / 4,
			Fallback: true,
		}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	geom := Geometry{CenterX: best.CenterX, CenterY: best.CenterY, Radius: best.Radius}
	if p.WeightedCenter {
		geom.CenterX, geom.CenterY = weightedCenter(candidates)
	}
	return geom, candidates
}

// weightedCenter averages the centers of the top 20% of candidates
// (at least 5), weighted by score. The radius is not averaged; the caller
// keeps the best candidate's radius.
func weightedCenter(ranked []CircleCandidate) (int, int) {
	n := max(5, len(ranked)/5)
	n = min(n, len(ranked))

	var sumX, sumY, total float64
	for _, c := range ranked[:n] {
		sumX += float64(c.CenterX) * c.Score
		sumY += float64(c.CenterY) * c.Score
		total += c.Score
	}
	if total == 0 {
		return ranked[0].CenterX, ranked[0].CenterY
	}
	return int(math.Round(sumX / total)), int(math.Round(sumY / total))
}

// edgeStrength scores the bright-inside/dark-outside transition at a
// candidate circle's perimeter.
//
// It samples three concentric rings, inner (r - offset), on-edge (r) and
// outer (r + offset), at evenly spaced angles and compares their average
// brightness. A gauge bezel shows a bright face inside and a dark frame at
// and beyond the edge, so the score combines the inner-to-outer drop with
// the inner-to-edge drop. Candidates where fewer than MinValidFrac of the
// sample triplets land inside the image score zero, as do circles with an
// inverted (dark-inside) transition.
func (d *CenterDetector) edgeStrength(f *field.Field, cx, cy, radius int) float64 {
	width, height := f.Width(), f.Height()

	numSamples := max(16, int(math.Ceil(2*math.Pi*float64(radius))))
	offset := max(3, radius/10)

	var sumInner, sumEdge, sumOuter float64
	valid := 0

	for i := 0; i < numSamples; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSamples)
		cos := math.Cos(angle)
		sin := math.Sin(angle)

		xInner := int(float64(cx) + float64(radius-offset)*cos)
		yInner := int(float64(cy) + float64(radius-offset)*sin)
		xEdge := int(float64(cx) + float64(radius)*cos)
		yEdge := int(float64(cy) + float64(radius)*sin)
		xOuter := int(float64(cx) + float64(radius+offset)*cos)
		yOuter := int(float64(cy) + float64(radius+offset)*sin)

		if xInner < 0 || xInner >= width || yInner < 0 || yInner >= height ||
			xEdge < 0 || xEdge >= width || yEdge < 0 || yEdge >= height ||
			xOuter < 0 || xOuter >= width || yOuter < 0 || yOuter >= height {
			continue
		}

		sumInner += float64(f.At(xInner, yInner))
		sumEdge += float64(f.At(xEdge, yEdge))
		sumOuter += float64(f.At(xOuter, yOuter))
		valid++
	}

	if valid == 0 || float64(valid) < float64(numSamples)*d.params.MinValidFrac {
		return 0
	}

	avgInner := sumInner / float64(valid)
	avgEdge := sumEdge / float64(valid)
	avgOuter := sumOuter / float64(valid)

	score := (avgInner - avgOuter) + (avgInner - avgEdge)
	return math.Max(0, score)
}
