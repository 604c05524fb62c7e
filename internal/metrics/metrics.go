// Package metrics counts apply, reconcile and drag activity on a private Prometheus
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"menu-customizer/internal/drag"
	"menu-customizer/internal/model"
	"menu-customizer/internal/project"
	"menu-customizer/internal/reconcile"
)

type IncrementalCounter interface {
	Increment(val ...string)
	Add(n float64, val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func (c *Counter) Add(n float64, val ...string) {
	if n <= 0 {
		return
	}
	c.vec.WithLabelValues(val...).Add(n)
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Metrics implements the recorder hooks of the reconciler, projector and drag engine.
type Metrics struct {
	Registry *prometheus.Registry

	apply     IncrementalCounter
	missing   IncrementalCounter
	reconcile IncrementalCounter
	drags     IncrementalCounter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		Registry:  reg,
		apply:     NewCounterWithRegistry(reg, "menucustom_apply_total", "Apply passes per scope.", "scope"),
		missing:   NewCounterWithRegistry(reg, "menucustom_apply_missing_total", "Model items absent from the host document during apply.", "scope"),
		reconcile: NewCounterWithRegistry(reg, "menucustom_reconcile_items_total", "Items added or removed by reconcile.", "scope", "change"),
		drags:     NewCounterWithRegistry(reg, "menucustom_drag_total", "Finished drag gestures by outcome.", "scope", "outcome"),
	}
}

func (m *Metrics) Applied(scope model.Scope, r project.Result) {
	if m == nil {
		return
	}
	m.apply.Increment(string(scope))
	m.missing.Add(float64(len(r.Missing)), string(scope))
}

func (m *Metrics) Reconciled(scope model.Scope, d reconcile.Delta) {
	if m == nil {
		return
	}
	m.reconcile.Add(float64(len(d.Added)), string(scope), "added")
	m.reconcile.Add(float64(len(d.Removed)), string(scope), "removed")
}

func (m *Metrics) Dragged(scope model.Scope, outcome drag.Outcome) {
	if m == nil {
		return
	}
	m.drags.Increment(string(scope), string(outcome))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
