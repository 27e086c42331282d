// Package overlay renders detection diagnostics as annotated PNG files.
//
// Recorder implements gauge.DiagnosticSink: after each detection stage it
// draws the stage's result over the analyzed brightness field and writes
// the image into a debug directory, overwriting the previous cycle. The
// overlays answer the two questions that come up when a gauge reads wrong:
// did the detector find the right circle, and did it lock onto the actual
// needle.
//
// Diagnostics are strictly best-effort: rendering or write failures are
// logged and never propagate into the reading path.
package overlay
