package poller

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gauge-sensor/internal/config"
	"gauge-sensor/internal/gauge"
)

// stubSource serves a fixed image or error and counts acquisitions.
type stubSource struct {
	mu    sync.Mutex
	img   image.Image
	err   error
	calls int
}

func (s *stubSource) Acquire(_ context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

func (s *stubSource) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// drawGauge renders a synthetic dial image: bright face in a dark bezel on
// a gray background, with a dark needle at the given math-convention angle.
func drawGauge(width, height, cx, cy int, needleDeg float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := math.Hypot(float64(x-cx), float64(y-cy))
			var v uint8
			switch {
			case r < 57:
				v = 230
			case r <= 70:
				v = 40
			default:
				v = 150
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	rad := needleDeg * math.Pi / 180
	for r := 0; r <= 42; r++ {
		x := int(float64(cx) + float64(r)*math.Cos(rad))
		y := int(float64(cy) - float64(r)*math.Sin(rad))
		img.SetGray(x, y, color.Gray{Y: 10})
	}
	return img
}

func testSensor(t *testing.T, src *stubSource) *Sensor {
	t.Helper()

	cal := gauge.Calibration{MinAngleHours: 2, MaxAngleHours: 10, MinValue: 0, MaxValue: 100}
	pipeline, err := gauge.NewPipeline(cal, gauge.DefaultSearchParams(), nil)
	require.NoError(t, err)

	return &Sensor{
		Name:     "tank",
		Source:   src,
		Pipeline: pipeline,
	}
}

func TestCoordinatorRefresh(t *testing.T) {
	src := &stubSource{img: drawGauge(200, 200, 100, 100, 270)}
	coord := New(time.Minute, []*Sensor{testSensor(t, src)})

	state, ok := coord.Refresh(context.Background(), "tank")
	require.True(t, ok)
	require.True(t, state.Available)
	require.NotNil(t, state.Reading)

	// Needle straight down, mid-scale on 2h..10h over 0..100.
	assert.InDelta(t, 180, state.Reading.ClockAngle, 1.0)
	assert.InDelta(t, 50, state.Reading.Value, 1.0)
	assert.Empty(t, state.LastError)
	assert.Equal(t, 1, src.calls)
}

func TestCoordinatorRefresh_UnknownSensor(t *testing.T) {
	coord := New(time.Minute, nil)

	_, ok := coord.Refresh(context.Background(), "nope")
	assert.False(t, ok)
}

func TestCoordinator_FailureKeepsLastReading(t *testing.T) {
	src := &stubSource{img: drawGauge(200, 200, 100, 100, 270)}
	coord := New(time.Minute, []*Sensor{testSensor(t, src)})
	ctx := context.Background()

	coord.RefreshAll(ctx)
	state, ok := coord.State("tank")
	require.True(t, ok)
	require.True(t, state.Available)
	firstValue := state.Reading.Value

	// Source starts failing: unavailable, stale reading retained.
	src.setError(errors.New("camera offline"))
	coord.RefreshAll(ctx)

	state, ok = coord.State("tank")
	require.True(t, ok)
	assert.False(t, state.Available)
	assert.Contains(t, state.LastError, "camera offline")
	require.NotNil(t, state.Reading, "stale reading should survive a failed cycle")
	assert.Equal(t, firstValue, state.Reading.Value)

	// Recovery flips it back.
	src.setError(nil)
	coord.RefreshAll(ctx)

	state, _ = coord.State("tank")
	assert.True(t, state.Available)
	assert.Empty(t, state.LastError)
	assert.Equal(t, uint64(3), coord.Cycles())
}

func TestCoordinator_CropIsApplied(t *testing.T) {
	// Dial off in a larger frame; the crop recenters it.
	src := &stubSource{img: drawGauge(260, 240, 130, 120, 270)}

	sensor := testSensor(t, src)
	sensor.Crop = config.CropConfig{X: 30, Y: 20, Width: 200, Height: 200}

	coord := New(time.Minute, []*Sensor{sensor})
	state, ok := coord.Refresh(context.Background(), "tank")
	require.True(t, ok)
	require.True(t, state.Available, "last error: %s", state.LastError)
	assert.False(t, state.Reading.CenterFallback)
	assert.InDelta(t, 180, state.Reading.ClockAngle, 1.0)
}

func TestCoordinatorState_BeforeFirstCycle(t *testing.T) {
	src := &stubSource{img: drawGauge(200, 200, 100, 100, 270)}
	coord := New(time.Minute, []*Sensor{testSensor(t, src)})

	state, ok := coord.State("tank")
	require.True(t, ok, "configured sensor should be known before its first cycle")
	assert.False(t, state.Available)
	assert.Nil(t, state.Reading)

	_, ok = coord.State("nope")
	assert.False(t, ok)
}

func TestCoordinatorStatesAndNames(t *testing.T) {
	srcA := &stubSource{img: drawGauge(200, 200, 100, 100, 270)}
	srcB := &stubSource{img: drawGauge(200, 200, 100, 100, 90)}

	a := testSensor(t, srcA)
	a.Name = "zeta"
	b := testSensor(t, srcB)
	b.Name = "alpha"

	coord := New(time.Minute, []*Sensor{a, b})
	coord.RefreshAll(context.Background())

	assert.Equal(t, []string{"alpha", "zeta"}, coord.Names())

	states := coord.States()
	require.Len(t, states, 2)
	assert.True(t, states["alpha"].Available)
	assert.True(t, states["zeta"].Available)
}

func TestCoordinatorStart_PollsUntilCancelled(t *testing.T) {
	src := &stubSource{img: drawGauge(200, 200, 100, 100, 270)}
	coord := New(10*time.Millisecond, []*Sensor{testSensor(t, src)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		coord.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return coord.Cycles() >= 2
	}, 5*time.Second, 5*time.Millisecond, "coordinator should keep cycling")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}
