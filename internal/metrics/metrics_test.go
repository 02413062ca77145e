package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector_BookingCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBooking()
	c.RecordBooking()
	c.RecordBookingConflict()
	c.RecordCancellation()

	if v := counterValue(t, reg, "portal_bookings_total", nil); v != 2 {
		t.Errorf("bookings = %v, want 2", v)
	}
	if v := counterValue(t, reg, "portal_booking_conflicts_total", nil); v != 1 {
		t.Errorf("conflicts = %v, want 1", v)
	}
	if v := counterValue(t, reg, "portal_cancellations_total", nil); v != 1 {
		t.Errorf("cancellations = %v, want 1", v)
	}
}

func TestCollector_ExternalStatusLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordExternalStatus("nominatim", 200)
	c.RecordExternalStatus("nominatim", 200)
	c.RecordExternalStatus("overpass", 504)

	if v := counterValue(t, reg, "portal_external_status_total",
		map[string]string{"service": "nominatim", "status_code": "200"}); v != 2 {
		t.Errorf("nominatim 200 = %v, want 2", v)
	}
	if v := counterValue(t, reg, "portal_external_status_total",
		map[string]string{"service": "overpass", "status_code": "504"}); v != 1 {
		t.Errorf("overpass 504 = %v, want 1", v)
	}
}

func TestCollector_LatencyObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordExternalLatency("inference", 250*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	for _, fam := range families {
		if fam.GetName() != "portal_external_latency_seconds" {
			continue
		}
		m := fam.GetMetric()[0]
		if got := m.GetHistogram().GetSampleCount(); got != 1 {
			t.Errorf("sample count = %d, want 1", got)
		}
		if got := m.GetHistogram().GetSampleSum(); got < 0.24 || got > 0.26 {
			t.Errorf("sample sum = %v, want ~0.25", got)
		}
		return
	}
	t.Fatal("portal_external_latency_seconds not registered")
}
