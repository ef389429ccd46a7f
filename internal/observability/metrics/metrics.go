// Package metrics exposes prometheus counters for the booking flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts lifecycle activity across the coordinators.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	conflictsTotal   *prometheus.CounterVec
	sweepPromoted    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetdesk",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Total booking requests accepted as pending",
		}, []string{"service"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetdesk",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Total appointment status transitions applied",
		}, []string{"to"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetdesk",
			Subsystem: "appointments",
			Name:      "conflicts_total",
			Help:      "Total operations rejected by the availability check",
		}, []string{"operation"}),
		sweepPromoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vetdesk",
			Subsystem: "appointments",
			Name:      "sweep_promoted_total",
			Help:      "Total confirmed appointments the sweeper promoted to completed",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.conflictsTotal, m.sweepPromoted)
	return m
}

func (m *BookingMetrics) BookingCreated(service string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(service).Inc()
}

func (m *BookingMetrics) TransitionApplied(to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(to).Inc()
}

func (m *BookingMetrics) ConflictDetected(operation string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(operation).Inc()
}

func (m *BookingMetrics) SweepPromoted(count int) {
	if m == nil {
		return
	}
	m.sweepPromoted.Add(float64(count))
}
