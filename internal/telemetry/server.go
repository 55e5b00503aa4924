package telemetry

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BallView is the JSON-facing shape of one ball in a /debug/state response.
type BallView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	R     float64 `json:"r"`
	Owner int     `json:"owner"`
}

// StateProvider is the minimal surface the debug router needs from a
// simulation; a narrow interface keeps this package free of an import
// cycle back to the simulation package and makes the handler testable
// against a fake.
type StateProvider interface {
	NumChambers() int
	NumStepsTaken() uint64
	Seed() int64
	Balls() []BallView
}

// Config controls the debug/telemetry HTTP surface.
type Config struct {
	ListenAddr  string
	CORSOrigins []string
}

// DefaultConfig binds to localhost only; the debug surface is not meant to
// be exposed beyond the host running the simulation.
func DefaultConfig() Config {
	return Config{
		ListenAddr: "127.0.0.1:9090",
	}
}

// NewRouter builds the chi router serving health, Prometheus metrics, and
// a JSON snapshot of simulation state. Pure: no goroutines or listeners
// are started, so it's safe to mount in httptest.
func NewRouter(cfg Config, state StateProvider) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/debug/state", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"numChambers":   state.NumChambers(),
			"numStepsTaken": state.NumStepsTaken(),
			"seed":          state.Seed(),
			"balls":         state.Balls(),
		})
	})

	return r
}

// Serve starts the debug router in a background goroutine. It never
// blocks the caller; a listen failure is logged, not returned, matching
// the ambient nature of this surface (it must never take the simulation
// down with it).
func Serve(cfg Config, state StateProvider) {
	router := NewRouter(cfg, state)
	go func() {
		log.Printf("telemetry server starting on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
			log.Printf("telemetry server error: %v", err)
		}
	}()
}

// PollEventLogStats is invoked periodically by cmd/simulator to keep the
// Prometheus event-log counters in sync with the engine's own stats map.
func PollEventLogStats(stats func() map[string]uint64, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s := stats()
			UpdateEventLogDelta(s["total"], s["dropped"])
		}
	}
}
