package gauge

import (
	"fmt"
	"math"
)

// DegreesPerHour converts clock-face hours to clock-convention degrees.
// A full dial is 12 hours, so each hour mark spans 30°.
const DegreesPerHour = 30.0

// Calibration maps the needle's angular sweep to a physical value range.
//
// Angles are expressed as clock-face hours because that is how people
// describe gauge dials: "the scale runs from 7 o'clock to 5 o'clock".
// MinAngleHours marks the needle position at MinValue, MaxAngleHours the
// position at MaxValue, sweeping clockwise. When the sweep crosses the
// 12-o'clock mark (min degrees > max degrees) the span wraps through 0°;
// see Wraps.
type Calibration struct {
	MinAngleHours float64 `json:"min_angle_hours" yaml:"min_angle_hours"`
	MaxAngleHours float64 `json:"max_angle_hours" yaml:"max_angle_hours"`
	MinValue      float64 `json:"min_value" yaml:"min_value"`
	MaxValue      float64 `json:"max_value" yaml:"max_value"`

	// Units is a free-form label attached to readings; the core never
	// interprets it.
	Units string `json:"units,omitempty" yaml:"units,omitempty"`
}

// Validate checks the calibration invariants. It is called once at pipeline
// construction; a pipeline is never built from an invalid calibration.
func (c Calibration) Validate() error {
	if c.MinAngleHours < 0 || c.MinAngleHours > 12 {
		return fmt.Errorf("min_angle_hours %v outside [0, 12]", c.MinAngleHours)
	}
	if c.MaxAngleHours < 0 || c.MaxAngleHours > 12 {
		return fmt.Errorf("max_angle_hours %v outside [0, 12]", c.MaxAngleHours)
	}
	for name, v := range map[string]float64{
		"min_angle_hours": c.MinAngleHours,
		"max_angle_hours": c.MaxAngleHours,
		"min_value":       c.MinValue,
		"max_value":       c.MaxValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", name)
		}
	}
	return nil
}

// MinDeg returns the scale start in clock-convention degrees.
func (c Calibration) MinDeg() float64 { return c.MinAngleHours * DegreesPerHour }

// MaxDeg returns the scale end in clock-convention degrees.
func (c Calibration) MaxDeg() float64 { return c.MaxAngleHours * DegreesPerHour }

// Wraps reports whether the calibrated sweep crosses the 12-o'clock mark,
// e.g. a dial running from 7 o'clock (210°) around through midnight to
// 5 o'clock (150°).
func (c Calibration) Wraps() bool { return c.MinDeg() > c.MaxDeg() }

// Degenerate reports whether the sweep has zero angular extent, in which
// case mapping always yields MinValue.
func (c Calibration) Degenerate() bool { return c.MinDeg() == c.MaxDeg() }
