package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncInFlight()
	m.ObserveRequest("GET", "/api/v1/products", "200", 25*time.Millisecond)
	m.DecInFlight()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"http_request_duration_seconds", "http_requests_total", "http_requests_in_flight"} {
		if !names[want] {
			t.Fatalf("expected metric %s to be registered, have %v", want, names)
		}
	}
}

func TestBudgetMetricsNilSafe(t *testing.T) {
	var m *BudgetMetrics
	m.ObserveSave("ok", time.Millisecond)
	m.IncLockRejection()

	empty := NewBudgetMetrics(nil)
	empty.ObserveSave("error", time.Millisecond)
	empty.IncLockRejection()
}

func TestBudgetMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBudgetMetrics(reg)

	m.ObserveSave("ok", 10*time.Millisecond)
	m.ObserveSave("", time.Millisecond)
	m.IncLockRejection()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered budget metrics")
	}
}
