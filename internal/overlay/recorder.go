package overlay

import (
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"gauge-sensor/internal/field"
	"gauge-sensor/internal/gauge"
)

// Recorder is a gauge.DiagnosticSink that persists detection overlays as
// PNG files in a per-run debug directory.
//
// Every cycle overwrites the previous cycle's files, so the directory
// always shows the latest detection state:
//
//	<dir>/<sensor>_center.png  detected circle, crosshair, runner-ups
//	<dir>/<sensor>_needle.png  detected needle ray over the search band
//
// Failures to write are logged and swallowed; diagnostics must never fail
// a reading.
type Recorder struct {
	dir    string
	sensor string
}

// NewRecorder creates a recorder writing into dir, creating it if needed.
// The sensor name is sanitized for use in filenames.
func NewRecorder(dir, sensor string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Recorder{dir: dir, sensor: sanitizeName(sensor)}, nil
}

// CenterDetected renders the selected circle and its closest competitors.
func (r *Recorder) CenterDetected(f *field.Field, geom gauge.Geometry, candidates []gauge.CircleCandidate) {
	img := renderCenter(f, geom, candidates)
	r.save(img, "center")
	if geom.Fallback {
		log.Printf("overlay[%s]: center search found no candidate, using image-center fallback", r.sensor)
	}
}

// CoarseScan logs the darkest directions of the sweep. The full table is
// not persisted; the top entries are what matters when tuning.
func (r *Recorder) CoarseScan(_ *field.Field, _ gauge.Geometry, scores []gauge.AngleScore) {
	ranked := make([]gauge.AngleScore, len(scores))
	copy(ranked, scores)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })

	n := min(5, len(ranked))
	for i := 0; i < n; i++ {
		log.Printf("overlay[%s]: coarse scan #%d angle=%.0f° score=%.2f samples=%d",
			r.sensor, i+1, ranked[i].AngleDeg, ranked[i].Score, ranked[i].Samples)
	}
}

// NeedleRefined renders the final needle ray.
func (r *Recorder) NeedleRefined(f *field.Field, geom gauge.Geometry, needle gauge.NeedleAngle) {
	img := renderNeedle(f, geom, needle)
	r.save(img, "needle")
	if needle.LowConfidence {
		log.Printf("overlay[%s]: needle appears too bright (score %.2f), detection may be unreliable",
			r.sensor, needle.Score)
	}
}

func (r *Recorder) save(img image.Image, stage string) {
	path := r.path(stage)
	if err := imaging.Save(img, path); err != nil {
		log.Printf("overlay[%s]: could not save %s: %v", r.sensor, path, err)
	}
}

// sanitizeName keeps letters, digits, dashes and underscores; everything
// else becomes an underscore so the name is safe in a filename.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "sensor"
	}
	return b.String()
}

func (r *Recorder) path(stage string) string {
	return filepath.Join(r.dir, r.sensor+"_"+stage+".png")
}
