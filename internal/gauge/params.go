package gauge

import "fmt"

// SearchParams controls the scan grids used by center and needle detection.
//
// The defaults reproduce the tuning the detector was validated with; most
// deployments never need to override them. All fields are validated once at
// pipeline construction, never per image.
type SearchParams struct {
	// CenterSearchFrac is the half-width of the center search window as a
	// fraction of each image dimension. Centers are scanned within
	// ±CenterSearchFrac·width and ±CenterSearchFrac·height of the image
	// geometric center.
	CenterSearchFrac float64

	// MinRadiusFrac and MaxRadiusFrac bound the candidate bezel radius as
	// fractions of the smaller image dimension.
	MinRadiusFrac float64
	MaxRadiusFrac float64

	// GridSteps is the approximate number of scan steps across each search
	// range. Center and radius step sizes are derived as range/GridSteps
	// with a floor of 2 pixels.
	GridSteps int

	// MinValidFrac is the fraction of ring samples that must land inside
	// the image for a candidate circle to be scored at all.
	MinValidFrac float64

	// WeightedCenter selects the score-weighted average of the top
	// candidates' centers instead of the single best candidate. The radius
	// is always taken from the best candidate regardless of this setting.
	WeightedCenter bool

	// NeedleLengthFrac is the needle search band's outer radius as a
	// fraction of the detected gauge radius.
	NeedleLengthFrac float64

	// CoarseStepDeg is the angular step of the full-circle needle scan.
	CoarseStepDeg float64

	// RefineSpanDeg and RefineStepDeg control the local refinement scan
	// around the coarse best angle: ±RefineSpanDeg in RefineStepDeg
	// increments.
	RefineSpanDeg float64
	RefineStepDeg float64

	// BrightLimit is the average-brightness score above which a detected
	// needle is flagged low-confidence. Needles are dark; a best ray this
	// bright usually means the detector locked onto a shadow or glare.
	BrightLimit float64
}

// DefaultSearchParams returns the validated default tuning.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		CenterSearchFrac: 0.25,
		MinRadiusFrac:    0.25,
		MaxRadiusFrac:    0.45,
		GridSteps:        10,
		MinValidFrac:     0.75,
		WeightedCenter:   false,
		NeedleLengthFrac: 0.75,
		CoarseStepDeg:    5,
		RefineSpanDeg:    4,
		RefineStepDeg:    0.5,
		BrightLimit:      200,
	}
}

// Validate reports the first out-of-range parameter, if any.
func (p SearchParams) Validate() error {
	switch {
	case p.CenterSearchFrac <= 0 || p.CenterSearchFrac > 0.5:
		return fmt.Errorf("center_search_frac %v outside (0, 0.5]", p.CenterSearchFrac)
	case p.MinRadiusFrac <= 0 || p.MaxRadiusFrac <= p.MinRadiusFrac:
		return fmt.Errorf("radius fractions [%v, %v] must satisfy 0 < min < max", p.MinRadiusFrac, p.MaxRadiusFrac)
	case p.MaxRadiusFrac > 0.5:
		return fmt.Errorf("max_radius_frac %v exceeds 0.5 (circle cannot fit the image)", p.MaxRadiusFrac)
	case p.GridSteps < 1:
		return fmt.Errorf("grid_steps %d must be at least 1", p.GridSteps)
	case p.MinValidFrac <= 0 || p.MinValidFrac > 1:
		return fmt.Errorf("min_valid_frac %v outside (0, 1]", p.MinValidFrac)
	case p.NeedleLengthFrac <= 0 || p.NeedleLengthFrac > 1:
		return fmt.Errorf("needle_length_frac %v outside (0, 1]", p.NeedleLengthFrac)
	case p.CoarseStepDeg <= 0 || p.CoarseStepDeg > 90:
		return fmt.Errorf("coarse_step_deg %v outside (0, 90]", p.CoarseStepDeg)
	case p.RefineSpanDeg < 0 || p.RefineStepDeg <= 0:
		return fmt.Errorf("refine scan span %v / step %v invalid", p.RefineSpanDeg, p.RefineStepDeg)
	case p.BrightLimit <= 0 || p.BrightLimit > 255:
		return fmt.Errorf("bright_limit %v outside (0, 255]", p.BrightLimit)
	}
	return nil
}
