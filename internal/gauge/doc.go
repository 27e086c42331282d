// Package gauge reads a numeric value off a photograph of an analog needle
// gauge.
//
// The reading runs as a strictly sequential three-stage pipeline over a
// single brightness field:
//
//  1. Center detection (CenterDetector): a grid search over candidate
//     circle centers and radii, scoring each by the bright-inside /
//     dark-outside transition typical of a gauge bezel.
//  2. Needle detection (NeedleDetector): a coarse angular sweep that sums
//     brightness along radial rays to find the darkest direction, refined
//     by a finer local scan.
//  3. Calibration (AngleToValue): the refined angle, converted from the
//     detector's mathematical convention to clock degrees, is normalized
//     against the configured angular sweep (wrapping through 12 o'clock
//     when the dial calls for it) and linearly mapped to a value.
//
// # Angle Conventions
//
// Two conventions meet in this package. The detectors work in the
// mathematical convention with the image Y axis inverted: 0° points right,
// 90° points toward the top of the image, counter-clockwise positive.
// Calibrations use the clock convention: 0° at 12 o'clock, increasing
// clockwise, expressed in clock hours (30° per hour). ClockAngle performs
// the conversion; nothing else in the package mixes the two.
//
// # Failure Model
//
// Every failure is per-reading and recoverable. Center detection never
// fails; it degrades to the image geometric center and flags the reading.
// Needle detection returns ErrNoNeedle when there is nothing to read.
// Invalid calibrations and search parameters are rejected once, at
// NewPipeline, and can never reach the per-image path.
//
// # Concurrency
//
// The pipeline is stateless and reentrant: concurrent Read calls on
// independent fields are safe without locking. Writing successive readings
// of the same sensor into shared storage is the caller's concern.
package gauge
