// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics is what the booking use cases need.
type BookingMetrics interface {
	RecordBooking()
	RecordBookingConflict()
	RecordCancellation()
}

// ExternalMetrics is what the outbound clients (locator, inference) need.
type ExternalMetrics interface {
	RecordExternalStatus(service string, statusCode int)
	RecordExternalLatency(service string, duration time.Duration)
}

type Collector struct {
	bookings        prometheus.Counter
	conflicts       prometheus.Counter
	cancellations   prometheus.Counter
	externalStatus  *prometheus.CounterVec
	externalLatency *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_bookings_total",
			Help: "Total appointments booked",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_booking_conflicts_total",
			Help: "Booking attempts rejected because the slot was unavailable",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_cancellations_total",
			Help: "Total appointments cancelled",
		}),
		externalStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_external_status_total",
			Help: "Responses from external services by status code",
		}, []string{"service", "status_code"}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_external_latency_seconds",
			Help:    "Latency of external service calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}

	reg.MustRegister(
		c.bookings,
		c.conflicts,
		c.cancellations,
		c.externalStatus,
		c.externalLatency,
	)

	return c
}

func (c *Collector) RecordBooking() {
	c.bookings.Inc()
}

func (c *Collector) RecordBookingConflict() {
	c.conflicts.Inc()
}

func (c *Collector) RecordCancellation() {
	c.cancellations.Inc()
}

func (c *Collector) RecordExternalStatus(service string, statusCode int) {
	c.externalStatus.WithLabelValues(service, strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordExternalLatency(service string, duration time.Duration) {
	c.externalLatency.WithLabelValues(service).Observe(duration.Seconds())
}

var (
	_ BookingMetrics  = (*Collector)(nil)
	_ ExternalMetrics = (*Collector)(nil)
)
