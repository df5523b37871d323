// Package metrics exposes the document service's Prometheus collectors on a
// private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "financeiro"

// Write results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	Mutations     *prometheus.CounterVec
	Writes        *prometheus.CounterVec
	WriteDuration prometheus.Histogram
	Adoptions     prometheus.Counter
	LoadShapes    *prometheus.CounterVec
	Exports       *prometheus.CounterVec
	Reserve       prometheus.Gauge
	Years         prometheus.Gauge
}

// New registers every collector plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Document mutations applied locally, by operation.",
		}, []string{"operation"}),
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_writes_total",
			Help:      "Document pushes to the persistence backend, by result.",
		}, []string{"result"}),
		WriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_write_duration_seconds",
			Help:      "Time spent pushing the document.",
			Buckets:   prometheus.DefBuckets,
		}),
		Adoptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_adoptions_total",
			Help:      "Documents adopted from the persistence feed.",
		}),
		LoadShapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_loads_total",
			Help:      "Delivered documents by recognized shape.",
		}, []string{"shape"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Year report exports, by result.",
		}, []string{"result"}),
		Reserve: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_balance",
			Help:      "Current reserve balance.",
		}),
		Years: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "years",
			Help:      "Number of years in the document.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Mutations, m.Writes, m.WriteDuration, m.Adoptions,
		m.LoadShapes, m.Exports, m.Reserve, m.Years,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
