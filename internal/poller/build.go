package poller

import (
	"fmt"

	"gauge-sensor/internal/config"
	"gauge-sensor/internal/gauge"
	"gauge-sensor/internal/overlay"
	"gauge-sensor/internal/source"
)

// FromConfig assembles the sensor list from a validated configuration:
// one source, one pipeline and (when debugging is enabled) one overlay
// recorder per configured gauge.
func FromConfig(cfg *config.Config) ([]*Sensor, error) {
	sensors := make([]*Sensor, 0, len(cfg.Sensors))
	for _, sc := range cfg.Sensors {
		cal, err := sc.Gauge.Build()
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sc.Name, err)
		}

		params := gauge.DefaultSearchParams()
		params.WeightedCenter = sc.WeightedCenter

		var diag gauge.DiagnosticSink
		if cfg.Debug.Enabled {
			rec, err := overlay.NewRecorder(cfg.Debug.Dir, sc.Name)
			if err != nil {
				return nil, fmt.Errorf("sensor %q: create debug recorder: %w", sc.Name, err)
			}
			diag = rec
		}

		pipeline, err := gauge.NewPipeline(cal, params, diag)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sc.Name, err)
		}

		var src source.Source
		switch sc.Source.Type {
		case config.SourceFile:
			src = source.NewFileSource(sc.Source.Path)
		case config.SourceCamera:
			src = source.NewCameraSource(sc.Source.URL, sc.Source.Token)
		default:
			return nil, fmt.Errorf("sensor %q: unknown source type %q", sc.Name, sc.Source.Type)
		}

		sensors = append(sensors, &Sensor{
			Name:       sc.Name,
			Source:     src,
			Crop:       sc.Crop,
			BlurRadius: sc.BlurRadius,
			Pipeline:   pipeline,
		})
	}
	return sensors, nil
}
