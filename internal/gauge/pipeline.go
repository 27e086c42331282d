package gauge

import (
	"fmt"
	"time"

	"gauge-sensor/internal/field"
)

// Reading is the result of one pipeline execution.
//
// A Reading is produced once per invocation and owned by the caller; the
// pipeline retains nothing between cycles.
type Reading struct {
	// Value is the calibrated gauge value, clamped to the calibration's
	// value range.
	Value float64 `json:"value"`

	// Units echoes the calibration's free-form unit label.
	Units string `json:"units,omitempty"`

	// ClockAngle is the detected needle position in clock-convention
	// degrees (0° = 12 o'clock, clockwise).
	ClockAngle float64 `json:"clock_angle"`

	// LowConfidence is set when the needle ray was brighter than expected;
	// the value is still reported but may be unreliable.
	LowConfidence bool `json:"low_confidence,omitempty"`

	// CenterFallback is set when the center search degraded to the image
	// geometric center. Degraded, not failed: the value is still reported.
	CenterFallback bool `json:"center_fallback,omitempty"`

	// Timestamp records when the reading was produced (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// Pipeline composes the three detection stages into a single gauge reader:
// locate the face, find the needle, map the angle to a value.
//
// A Pipeline is immutable after construction and safe for concurrent use on
// independent fields; each Read call keeps all state on its own stack. It
// performs no I/O and never blocks, so no context or internal timeout is
// needed; callers wanting a deadline bound the whole reading cycle
// externally.
type Pipeline struct {
	cal    Calibration
	center *CenterDetector
	needle *NeedleDetector
	diag   DiagnosticSink
}

// NewPipeline validates the calibration and search parameters and builds a
// pipeline. A nil sink disables diagnostics.
//
// Validation happens here, once: an incomplete or out-of-range calibration
// can never reach the per-image path.
func NewPipeline(cal Calibration, params SearchParams, diag DiagnosticSink) (*Pipeline, error) {
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}
	if diag == nil {
		diag = NopSink{}
	}
	return &Pipeline{
		cal:    cal,
		center: NewCenterDetector(params),
		needle: NewNeedleDetector(params, diag),
		diag:   diag,
	}, nil
}

// Calibration returns the calibration the pipeline was constructed with.
func (p *Pipeline) Calibration() Calibration { return p.cal }

// Read executes one full detection cycle on the field.
//
// Center detection never fails (it degrades to the image center); needle
// detection may return ErrNoNeedle, which surfaces as a failed reading for
// this cycle. All failures are per-reading and recoverable.
func (p *Pipeline) Read(f *field.Field) (*Reading, error) {
	if f == nil || f.Width() == 0 || f.Height() == 0 {
		return nil, fmt.Errorf("empty brightness field")
	}

	geom, candidates := p.center.Detect(f)
	p.diag.CenterDetected(f, geom, candidates)

	needle, err := p.needle.Detect(f, geom)
	if err != nil {
		return nil, err
	}

	return &Reading{
		Value:          AngleToValue(needle.AngleDeg, p.cal),
		Units:          p.cal.Units,
		ClockAngle:     ClockAngle(needle.AngleDeg),
		LowConfidence:  needle.LowConfidence,
		CenterFallback: geom.Fallback,
		Timestamp:      time.Now().UTC(),
	}, nil
}
