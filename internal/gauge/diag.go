package gauge

import "gauge-sensor/internal/field"

// DiagnosticSink receives intermediate detection artifacts.
//
// The sink is an optional collaborator: production pipelines typically run
// with NopSink, while debugging setups inject a sink that renders overlay
// images or dumps score tables. It is invoked after center detection, after
// the coarse angular scan, and after refinement, never from inner loops.
//
// Implementations must not retain the field, candidate or score slices past
// the call; the detectors reuse and discard them.
type DiagnosticSink interface {
	// CenterDetected reports the selected geometry and the ranked
	// candidate list (best first; empty on fallback).
	CenterDetected(f *field.Field, geom Geometry, candidates []CircleCandidate)

	// CoarseScan reports the per-angle score table of the coarse sweep.
	CoarseScan(f *field.Field, geom Geometry, scores []AngleScore)

	// NeedleRefined reports the final needle angle after refinement.
	NeedleRefined(f *field.Field, geom Geometry, needle NeedleAngle)
}

// NopSink discards all diagnostics. It is the default sink.
type NopSink struct{}

func (NopSink) CenterDetected(*field.Field, Geometry, []CircleCandidate) {}
func (NopSink) CoarseScan(*field.Field, Geometry, []AngleScore)          {}
func (NopSink) NeedleRefined(*field.Field, Geometry, NeedleAngle)        {}
