package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"
)

// maxSnapshotBytes bounds how much image data a single camera response may
// carry. 32 MiB comfortably fits any still frame while keeping a
// misbehaving endpoint from exhausting memory.
const maxSnapshotBytes = 32 << 20

// CameraSource fetches a still frame from a network camera's snapshot
// endpoint over HTTP.
//
// An optional bearer token is attached to each request, covering camera
// proxies that sit behind an authenticated API. CameraSource is stateless
// apart from its HTTP client and safe for concurrent use.
type CameraSource struct {
	// URL is the snapshot endpoint returning a single encoded image.
	URL string

	// Token, when non-empty, is sent as an Authorization bearer token.
	Token string

	// Client is the HTTP client used for fetches. Leave nil for a default
	// client with a 15-second timeout.
	Client *http.Client
}

// NewCameraSource creates a source for the given snapshot URL.
func NewCameraSource(url, token string) *CameraSource {
	return &CameraSource{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Acquire fetches and decodes one frame from the camera.
func (s *CameraSource) Acquire(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build camera request: %w", err)
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch camera snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("read camera response: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode camera snapshot: %w", err)
	}
	return img, nil
}
