package source

import (
	"context"
	"image"
)

// Source produces one image per acquisition. Implementations cover local
// files (FileSource) and network cameras (CameraSource); the poller treats
// them uniformly.
//
// Acquire must be safe for sequential reuse across polling cycles.
// Implementations honor ctx for any I/O they perform.
type Source interface {
	Acquire(ctx context.Context) (image.Image, error)
}
