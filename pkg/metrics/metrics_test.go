package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/clients", 200, 40*time.Millisecond)
	m.Observe("GET", "/api/clients", 200, 10*time.Millisecond)
	m.Observe("POST", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/clients"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("fetch unknown route: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown route=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/clients"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetricsTracksOutcomesAndRevenue(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.ObserveCreate(OutcomeCreated, 5*time.Millisecond)
	m.ObserveCreate(OutcomeInsufficientStock, time.Millisecond)
	m.AddRevenue(2500)
	m.AddRevenue(-1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "order_create_total", "outcome", OutcomeInsufficientStock); err != nil {
		t.Fatalf("fetch outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected insufficient_stock=1, got %f", got)
	}
	mf := findMetricFamily(mfs, "order_revenue_total")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("revenue metric missing")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2500 {
		t.Fatalf("expected revenue 2500, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HTTPMetrics
	h.Observe("GET", "/", 200, time.Second)
	var o *OrderMetrics
	o.ObserveCreate(OutcomeCreated, time.Second)
	o.AddRevenue(10)

	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
	NewOrderMetrics(nil).ObserveCreate(OutcomeFailed, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	var total float64
	found := false
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			total += metric.GetCounter().GetValue()
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return total, nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
