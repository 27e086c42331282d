package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gauge-sensor/internal/gauge"
	"gauge-sensor/internal/poller"
)

// flatImageSource serves a uniform bright frame. Readings on it succeed via
// the center fallback, which is all the API tests need.
type flatImageSource struct{}

func (flatImageSource) Acquire(context.Context) (image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetGray(x, y, color.Gray{Y: 230})
		}
	}
	return img, nil
}

func testCoordinator(t *testing.T, names ...string) *poller.Coordinator {
	t.Helper()

	cal := gauge.Calibration{MinAngleHours: 2, MaxAngleHours: 10, MinValue: 0, MaxValue: 100}
	sensors := make([]*poller.Sensor, 0, len(names))
	for _, name := range names {
		pipeline, err := gauge.NewPipeline(cal, gauge.DefaultSearchParams(), nil)
		require.NoError(t, err)
		sensors = append(sensors, &poller.Sensor{
			Name:     name,
			Source:   flatImageSource{},
			Pipeline: pipeline,
		})
	}
	return poller.New(time.Minute, sensors)
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListSensors(t *testing.T) {
	srv := New(testCoordinator(t, "zeta", "alpha"))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/sensors")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sensors []string `json:"sensors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"alpha", "zeta"}, body.Sensors)
}

func TestGetReading(t *testing.T) {
	coord := testCoordinator(t, "tank")
	coord.RefreshAll(context.Background())
	srv := New(coord)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/readings/tank")
	require.Equal(t, http.StatusOK, rec.Code)

	var state poller.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Available)
	require.NotNil(t, state.Reading)
	assert.True(t, state.Reading.CenterFallback)
}

func TestGetReading_UnknownSensor(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/readings/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "nope")
}

func TestGetReading_BeforeFirstCycle(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/readings/tank")
	require.Equal(t, http.StatusOK, rec.Code)

	var state poller.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.False(t, state.Available)
	assert.Nil(t, state.Reading)
}

func TestListReadings(t *testing.T) {
	coord := testCoordinator(t, "tank", "boiler")
	coord.RefreshAll(context.Background())
	srv := New(coord)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/readings")
	require.Equal(t, http.StatusOK, rec.Code)

	var states map[string]poller.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 2)
	assert.True(t, states["tank"].Available)
	assert.True(t, states["boiler"].Available)
}

func TestRefresh(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/readings/tank/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var state poller.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Available)
	require.NotNil(t, state.Reading)
}

func TestRefresh_UnknownSensor(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/readings/nope/refresh")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh_WrongMethod(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/readings/tank/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	srv := New(testCoordinator(t, "tank"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
