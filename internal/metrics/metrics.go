package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for archival and retention.
type Metrics struct {
	registry *prometheus.Registry

	ArchivesCreated *prometheus.CounterVec
	EntriesPurged   *prometheus.CounterVec
	EntriesDeleted  *prometheus.CounterVec
	SweepDuration   *prometheus.HistogramVec
	BackendFallback *prometheus.CounterVec
}

// New registers all metrics on a dedicated registry, together with the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ArchivesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_archive_entries_created_total",
			Help: "Archive entries created, by entity type and mode (manual or automatic)",
		}, []string{"entity_type", "mode"}),
		EntriesPurged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_archive_entries_purged_total",
			Help: "Expired archive entries purged, by entity type and purge mode",
		}, []string{"entity_type", "mode"}),
		EntriesDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_archive_entries_deleted_total",
			Help: "Archive entries deleted individually by a user",
		}, []string{"entity_type"}),
		SweepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinic_archive_sweep_duration_seconds",
			Help:    "Duration of automatic archive sweeps",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"entity_type"}),
		BackendFallback: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_archive_backend_fallback_total",
			Help: "Entity listings served from the local cache because the clinic backend failed",
		}, []string{"entity_type"}),
	}
}

func (m *Metrics) ObserveArchived(entityType string, mode string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ArchivesCreated.WithLabelValues(entityType, mode).Add(float64(count))
}

func (m *Metrics) ObservePurged(entityType string, mode string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.EntriesPurged.WithLabelValues(entityType, mode).Add(float64(count))
}

func (m *Metrics) ObserveDeleted(entityType string) {
	if m == nil {
		return
	}
	m.EntriesDeleted.WithLabelValues(entityType).Inc()
}

// ObserveSweep records the duration of a sweep. Call with time.Now() at the start of the sweep.
func (m *Metrics) ObserveSweep(entityType string, start time.Time) {
	if m == nil {
		return
	}
	m.SweepDuration.WithLabelValues(entityType).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveFallback(entityType string) {
	if m == nil {
		return
	}
	m.BackendFallback.WithLabelValues(entityType).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
