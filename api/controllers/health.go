package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/pkg/config"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health is the plain status document the dashboard client polls.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Autoshop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each named dependency; nil pingers are skipped.
func HealthReady(cfg *config.Config, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Autoshop-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		if !ready {
			responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"data":    map[string]any{"status": "not_ready", "checks": checks},
			})
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
