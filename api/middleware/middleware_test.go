package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/metrics"
)

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksOverLimitPerIP(t *testing.T) {
	limiter := newFakeLimiter()
	handler := RateLimit(NewRateLimitPolicy("api", time.Minute, 2), limiter, nil)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if i == 2 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			var payload struct {
				Code  string `json:"code"`
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Code != string(pkgerrors.CodeRateLimit) || payload.Error != rateLimitMessage {
				t.Fatalf("unexpected payload %+v", payload)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After header, got %q", rec.Header().Get("Retry-After"))
			}
		}
	}

	other := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	other.RemoteAddr = "9.9.9.9:1111"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("separate IPs have separate windows, got %d", rec.Code)
	}
}

func TestRateLimitFailsOpenWhenCounterUnavailable(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	handler := RateLimit(NewRateLimitPolicy("api", time.Minute, 1), limiter, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass, got %d", rec.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("unexpected ip %q", got)
	}
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", maxRequestIDLen+1)} {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, bad)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		got := rec.Header().Get(requestIDHeader)
		if got == bad || got == "" {
			t.Fatalf("expected unsafe id %q to be replaced, got %q", bad, got)
		}
	}
}

func TestRecovererReturnsInternalError(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	handler := Recoverer(logg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("panic.recovered")) {
		t.Fatalf("expected panic to be logged; entry=%s", buf.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(panicMessage)) {
		t.Fatalf("expected generic message in body, got %s", rec.Body.String())
	}
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestLoggingRecordsStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if !bytes.Contains(buf.Bytes(), []byte(`"status":418`)) {
		t.Fatalf("expected status field; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("request.complete")) {
		t.Fatalf("expected completion entry; entry=%s", buf.String())
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/clients/7", "/api/clients/8"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/api/clients/{id}" && labels["status"] == "404" {
				found = true
				if metric.GetCounter().GetValue() != 2 {
					t.Fatalf("expected both requests on one series, got %v", metric.GetCounter().GetValue())
				}
			}
		}
	}
	if !found {
		t.Fatal("expected route-labelled series")
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
