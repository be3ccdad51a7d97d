// Package metrics exposes Prometheus collectors for a simulation run.
//
// A nil *Metrics is valid and records nothing, so the core packages can be
// exercised without any registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forgegrid"

// Tick outcomes reported by the termination monitor.
const (
	TickProductive = "productive"
	TickBusy       = "busy"
	TickStarved    = "starved"
)

// Metrics groups every collector of a run.
type Metrics struct {
	registry *prometheus.Registry

	productions         *prometheus.CounterVec
	reservationFailures *prometheus.CounterVec
	monitorTicks        *prometheus.CounterVec
	inventory           *prometheus.GaugeVec
	activeWorkers       prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		productions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "productions_total",
			Help:      "Completed productions by building and recipe.",
		}, []string{"building", "recipe"}),
		reservationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_failures_total",
			Help:      "Reservations that lost a race for components after a positive feasibility check.",
		}, []string{"building", "recipe"}),
		monitorTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitor_ticks_total",
			Help:      "Termination monitor polls by outcome.",
		}, []string{"outcome"}),
		inventory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_quantity",
			Help:      "Product quantity as last observed by the termination monitor.",
		}, []string{"product"}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Production workers that have not stopped yet.",
		}),
	}
	m.registry.MustRegister(
		m.productions,
		m.reservationFailures,
		m.monitorTicks,
		m.inventory,
		m.activeWorkers,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Produced counts one completed production.
func (m *Metrics) Produced(building, recipe string) {
	if m == nil {
		return
	}
	m.productions.WithLabelValues(building, recipe).Inc()
}

// ReservationFailed counts a reservation lost to another worker.
func (m *Metrics) ReservationFailed(building, recipe string) {
	if m == nil {
		return
	}
	m.reservationFailures.WithLabelValues(building, recipe).Inc()
}

// Tick counts one monitor poll with the given outcome.
func (m *Metrics) Tick(outcome string) {
	if m == nil {
		return
	}
	m.monitorTicks.WithLabelValues(outcome).Inc()
}

// ObserveInventory publishes a stock snapshot.
func (m *Metrics) ObserveInventory(stock map[string]int) {
	if m == nil {
		return
	}
	for id, qty := range stock {
		m.inventory.WithLabelValues(id).Set(float64(qty))
	}
}

// WorkerStarted increments the active worker gauge.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.activeWorkers.Inc()
}

// WorkerStopped decrements the active worker gauge.
func (m *Metrics) WorkerStopped() {
	if m == nil {
		return
	}
	m.activeWorkers.Dec()
}
