package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/garagehub/autoshop-backend/pkg/metrics"
)

// Metrics records request latency and status labelled by the matched route
// pattern, so /api/clients/7 and /api/clients/8 share a series.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.Observe(r.Method, route, rec.status, time.Since(start))
		})
	}
}
