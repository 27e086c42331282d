package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gauge-sensor/internal/poller"
)

// Server exposes the coordinator's reading store over a small JSON API.
//
// Endpoints:
//
//	GET  /healthz                        liveness plus cycle counter
//	GET  /api/sensors                    configured sensor names
//	GET  /api/readings                   latest state of every sensor
//	GET  /api/readings/{name}            latest state of one sensor
//	POST /api/readings/{name}/refresh    process the sensor now
//
// The server never exposes mutating operations beyond refresh; calibration
// and sensor changes require a config reload.
type Server struct {
	coord *poller.Coordinator
	mux   *http.ServeMux
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// New wires the API routes onto a fresh mux.
func New(coord *poller.Coordinator) *Server {
	s := &Server{
		coord: coord,
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/sensors", s.handleSensors)
	s.mux.HandleFunc("GET /api/readings", s.handleReadings)
	s.mux.HandleFunc("GET /api/readings/{name}", s.handleReading)
	s.mux.HandleFunc("POST /api/readings/{name}/refresh", s.handleRefresh)
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully with a short drain period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cycles": s.coord.Cycles(),
	})
}

func (s *Server) handleSensors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sensors": s.coord.Names(),
	})
}

func (s *Server) handleReadings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.States())
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	state, ok := s.coord.State(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown sensor: " + name})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	state, ok := s.coord.Refresh(r.Context(), name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown sensor: " + name})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}
