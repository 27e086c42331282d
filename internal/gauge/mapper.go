package gauge

import "math"

// ClockAngle converts an angle from the mathematical convention used by the
// needle detector (0° = 3 o'clock, counter-clockwise positive, with image Y
// sampled inverted so that 90° points up) into the clock convention used by
// calibrations (0° = 12 o'clock, clockwise positive).
//
// The result is normalized to [0, 360).
func ClockAngle(angleMath float64) float64 {
	clock := math.Mod(90-angleMath, 360)
	if clock < 0 {
		clock += 360
	}
	return clock
}

// AngleToValue maps a detected needle angle (mathematical convention) to a
// physical value under the given calibration.
//
// The mapping is total: every input angle produces a value. The needle angle
// is converted to clock degrees, normalized against the calibrated sweep
// (wrapping through 0° when the sweep crosses the 12-o'clock mark), linearly
// interpolated between MinValue and MaxValue, and clamped to that range.
// A degenerate calibration (zero angular extent) yields MinValue.
func AngleToValue(angleMath float64, cal Calibration) float64 {
	clock := ClockAngle(angleMath)
	minDeg := cal.MinDeg()
	maxDeg := cal.MaxDeg()

	var normalized, totalRange float64
	if minDeg > maxDeg {
		// Sweep crosses 12 o'clock: e.g. 210° (7h) through 0° to 150° (5h).
		if clock >= minDeg {
			normalized = clock - minDeg
		} else {
			normalized = (360 - minDeg) + clock
		}
		totalRange = (360 - minDeg) + maxDeg
	} else {
		normalized = clock - minDeg
		totalRange = maxDeg - minDeg
	}

	if totalRange == 0 {
		return cal.MinValue
	}

	value := (normalized/totalRange)*(cal.MaxValue-cal.MinValue) + cal.MinValue

	// Clamp: angles outside the calibrated sweep pin to the nearer bound.
	lo, hi := cal.MinValue, cal.MaxValue
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(hi, math.Max(lo, value))
}
