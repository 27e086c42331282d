package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
	"time"
)

// FileSource reads a gauge photo from a path on local disk.
//
// The typical deployment points this at a file that an external camera or
// script overwrites periodically. To avoid re-decoding an unchanged file
// every polling cycle, FileSource caches the decoded image together with
// the file's modification time and size, and only decodes again when either
// changes.
//
// FileSource is safe for concurrent use.
type FileSource struct {
	Path string

	mu      sync.Mutex
	img     image.Image
	modTime time.Time
	size    int64
}

// NewFileSource creates a source for the given path. The file is not
// touched until the first Acquire.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Acquire returns the decoded image, re-reading the file only when its
// modification time or size has changed since the last call.
func (s *FileSource) Acquire(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("stat image file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.img != nil && stat.ModTime().Equal(s.modTime) && stat.Size() == s.size {
		return s.img, nil
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", s.Path, err)
	}

	s.img = img
	s.modTime = stat.ModTime()
	s.size = stat.Size()
	return img, nil
}
