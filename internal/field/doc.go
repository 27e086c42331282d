// Package field provides the grayscale brightness field consumed by the
// gauge-reading core.
//
// A Field is a width×height grid of 8-bit brightness samples stored row-major
// with the origin at the top-left corner; X increases rightward and Y
// increases downward, matching standard image coordinates. Fields are
// immutable once built: every operation that changes geometry (cropping)
// returns a new Field backed by its own pixel buffer.
//
// # Construction
//
// Fields are normally built from a decoded image.Image via FromImage, which
// converts color input to luminance and optionally applies a Gaussian blur
// to suppress sensor noise before analysis. Callers that already hold raw
// grayscale data can use New directly.
//
// # Thread Safety
//
// A Field carries no mutable state, so any number of goroutines may read
// from the same Field concurrently.
package field
