package poller

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"gauge-sensor/internal/config"
	"gauge-sensor/internal/field"
	"gauge-sensor/internal/gauge"
	"gauge-sensor/internal/source"
)

// Sensor is one configured gauge: where its images come from, how to
// prepare them, and the pipeline that reads them.
type Sensor struct {
	Name       string
	Source     source.Source
	Crop       config.CropConfig
	BlurRadius float64
	Pipeline   *gauge.Pipeline

	// mu serializes processing of this sensor, so a manual refresh can
	// never run concurrently with the polling cycle for the same state.
	mu sync.Mutex
}

// State is the last known condition of a sensor.
//
// Available mirrors the reporting contract: a sensor whose latest cycle
// failed is unavailable/stale until a later cycle succeeds. Reading holds
// the last successful result even while unavailable, so consumers can show
// the stale value alongside the error.
type State struct {
	Reading   *gauge.Reading `json:"reading,omitempty"`
	Available bool           `json:"available"`
	LastError string         `json:"last_error,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Coordinator polls every sensor on a fixed cadence and retains the latest
// state per sensor.
//
// Per-cycle failures are recorded and reported, never fatal: an unreadable
// image or an undetectable needle marks the sensor unavailable for that
// cycle and polling continues.
type Coordinator struct {
	interval time.Duration
	sensors  []*Sensor

	mu     sync.RWMutex
	states map[string]*State
	cycles uint64
}

// New creates a coordinator for the given sensors. Start must be called to
// begin polling; until then states are empty.
func New(interval time.Duration, sensors []*Sensor) *Coordinator {
	return &Coordinator{
		interval: interval,
		sensors:  sensors,
		states:   make(map[string]*State, len(sensors)),
	}
}

// Start runs an immediate first cycle, then polls on the configured
// interval until ctx is cancelled. It blocks; run it in a goroutine.
func (c *Coordinator) Start(ctx context.Context) {
	log.Printf("poller: %d sensor(s), interval %s", len(c.sensors), c.interval)

	c.RefreshAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("poller: stopped after %d cycle(s)", c.Cycles())
			return
		case <-ticker.C:
			c.RefreshAll(ctx)
		}
	}
}

// RefreshAll processes every sensor once, sequentially.
func (c *Coordinator) RefreshAll(ctx context.Context) {
	for _, s := range c.sensors {
		if ctx.Err() != nil {
			return
		}
		c.refresh(ctx, s)
	}
	c.mu.Lock()
	c.cycles++
	c.mu.Unlock()
}

// Refresh processes the named sensor immediately and returns its new
// state. It is the manual trigger behind the API's refresh endpoint.
func (c *Coordinator) Refresh(ctx context.Context, name string) (State, bool) {
	for _, s := range c.sensors {
		if s.Name == name {
			c.refresh(ctx, s)
			return c.snapshot(name)
		}
	}
	return State{}, false
}

// refresh runs one acquire-prepare-read cycle for a single sensor and
// stores the outcome.
func (c *Coordinator) refresh(ctx context.Context, s *Sensor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reading, err := c.readOnce(ctx, s)

	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[s.Name]
	if !ok {
		state = &State{}
		c.states[s.Name] = state
	}
	state.UpdatedAt = time.Now().UTC()
	if err != nil {
		state.Available = false
		state.LastError = err.Error()
		log.Printf("poller[%s]: no reading this cycle: %v", s.Name, err)
		return
	}
	state.Available = true
	state.LastError = ""
	state.Reading = reading
	if reading.LowConfidence {
		log.Printf("poller[%s]: reading %.3f %s (low confidence)", s.Name, reading.Value, reading.Units)
	}
}

func (c *Coordinator) readOnce(ctx context.Context, s *Sensor) (*gauge.Reading, error) {
	img, err := s.Source.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	f := field.FromImage(img, s.BlurRadius)
	if s.Crop.Enabled() {
		f = f.Crop(s.Crop.X, s.Crop.Y, s.Crop.Width, s.Crop.Height)
	}

	return s.Pipeline.Read(f)
}

// State returns the latest state of the named sensor. A configured sensor
// that has not completed a cycle yet reports a zero (unavailable) state
// rather than not-found.
func (c *Coordinator) State(name string) (State, bool) {
	if s, ok := c.snapshot(name); ok {
		return s, true
	}
	for _, s := range c.sensors {
		if s.Name == name {
			return State{}, true
		}
	}
	return State{}, false
}

// States returns the latest state of every sensor, keyed by name. Sensors
// not yet processed are absent.
func (c *Coordinator) States() map[string]State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]State, len(c.states))
	for name, s := range c.states {
		out[name] = *s
	}
	return out
}

// Names returns the configured sensor names in sorted order.
func (c *Coordinator) Names() []string {
	names := make([]string, 0, len(c.sensors))
	for _, s := range c.sensors {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Cycles returns the number of completed polling cycles.
func (c *Coordinator) Cycles() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cycles
}

func (c *Coordinator) snapshot(name string) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.states[name]
	if !ok {
		return State{}, false
	}
	return *s, true
}
