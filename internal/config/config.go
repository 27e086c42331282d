package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gauge-sensor/internal/gauge"
)

// Source types accepted in a sensor's source block.
const (
	SourceFile   = "file"
	SourceCamera = "camera"
)

// Defaults applied when optional settings are omitted.
const (
	DefaultPollIntervalSeconds = 30
	DefaultListenAddr          = ":8799"
	DefaultDebugDir            = "debug"
)

// SourceConfig selects where a sensor's images come from.
type SourceConfig struct {
	Type  string `yaml:"type"`            // "file" or "camera"
	Path  string `yaml:"path,omitempty"`  // file: path on disk
	URL   string `yaml:"url,omitempty"`   // camera: snapshot endpoint
	Token string `yaml:"token,omitempty"` // camera: optional bearer token
}

// CropConfig is an optional rectangular crop applied before analysis.
// A zero Width or Height disables cropping. Out-of-bounds values are
// clamped at processing time, not rejected here.
type CropConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Enabled reports whether the crop has any effect.
func (c CropConfig) Enabled() bool { return c.Width > 0 && c.Height > 0 }

// CalibrationConfig is the on-disk form of a gauge calibration. All four
// numeric fields are required; a sensor with an incomplete calibration is
// rejected at load, never at reading time.
type CalibrationConfig struct {
	MinAngleHours *float64 `yaml:"min_angle_hours"`
	MaxAngleHours *float64 `yaml:"max_angle_hours"`
	MinValue      *float64 `yaml:"min_value"`
	MaxValue      *float64 `yaml:"max_value"`
	Units         string   `yaml:"units,omitempty"`
}

// Build converts the on-disk form into a validated gauge.Calibration.
func (c CalibrationConfig) Build() (gauge.Calibration, error) {
	for name, v := range map[string]*float64{
		"min_angle_hours": c.MinAngleHours,
		"max_angle_hours": c.MaxAngleHours,
		"min_value":       c.MinValue,
		"max_value":       c.MaxValue,
	} {
		if v == nil {
			return gauge.Calibration{}, fmt.Errorf("missing required field %q", name)
		}
	}
	cal := gauge.Calibration{
		MinAngleHours: *c.MinAngleHours,
		MaxAngleHours: *c.MaxAngleHours,
		MinValue:      *c.MinValue,
		MaxValue:      *c.MaxValue,
		Units:         c.Units,
	}
	if err := cal.Validate(); err != nil {
		return gauge.Calibration{}, err
	}
	return cal, nil
}

// SensorConfig describes one gauge to poll.
type SensorConfig struct {
	Name   string            `yaml:"name"`
	Source SourceConfig      `yaml:"source"`
	Crop   CropConfig        `yaml:"crop,omitempty"`
	Gauge  CalibrationConfig `yaml:"gauge"`

	// BlurRadius is the Gaussian blur applied before grayscale
	// conversion; 0 disables smoothing.
	BlurRadius float64 `yaml:"blur_radius,omitempty"`

	// WeightedCenter enables the score-weighted center aggregation
	// instead of the single best circle candidate.
	WeightedCenter bool `yaml:"weighted_center,omitempty"`
}

// Validate checks everything that must hold before a pipeline is built.
func (s SensorConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("sensor has no name")
	}
	switch s.Source.Type {
	case SourceFile:
		if s.Source.Path == "" {
			return fmt.Errorf("sensor %q: file source requires path", s.Name)
		}
	case SourceCamera:
		if s.Source.URL == "" {
			return fmt.Errorf("sensor %q: camera source requires url", s.Name)
		}
	default:
		return fmt.Errorf("sensor %q: unknown source type %q", s.Name, s.Source.Type)
	}
	if s.BlurRadius < 0 {
		return fmt.Errorf("sensor %q: blur_radius must not be negative", s.Name)
	}
	if _, err := s.Gauge.Build(); err != nil {
		return fmt.Errorf("sensor %q: %w", s.Name, err)
	}
	return nil
}

// DebugConfig controls debug-overlay persistence.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

// Config is the top-level structure of the configuration file.
type Config struct {
	PollIntervalSeconds int            `yaml:"poll_interval_seconds,omitempty"`
	Listen              string         `yaml:"listen,omitempty"`
	Debug               DebugConfig    `yaml:"debug,omitempty"`
	Sensors             []SensorConfig `yaml:"sensors"`
}

// PollInterval returns the polling cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Load reads, parses and validates the configuration file, applying
// defaults for omitted optional settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse validates raw YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if cfg.PollIntervalSeconds < 1 {
		return nil, fmt.Errorf("poll_interval_seconds must be positive")
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListenAddr
	}
	if cfg.Debug.Enabled && cfg.Debug.Dir == "" {
		cfg.Debug.Dir = DefaultDebugDir
	}

	if len(cfg.Sensors) == 0 {
		return nil, fmt.Errorf("no sensors configured")
	}
	seen := make(map[string]bool, len(cfg.Sensors))
	for _, s := range cfg.Sensors {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate sensor name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return &cfg, nil
}
