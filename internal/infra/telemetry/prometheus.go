package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shelfsync/internal/domain"
)

type PrometheusMetrics struct {
	syncDuration    *prometheus.HistogramVec
	syncTotal       *prometheus.CounterVec
	buildDuration   *prometheus.HistogramVec
	catalogEntries  *prometheus.GaugeVec
	catalogSkipped  *prometheus.GaugeVec
	skippedEntries  *prometheus.CounterVec
	lastSyncSuccess prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		syncDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfsync_sync_duration_seconds",
				Help:    "Duration of full sync runs in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"status"},
		),
		syncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfsync_sync_total",
				Help: "Total number of sync runs",
			},
			[]string{"status"},
		),
		buildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfsync_catalog_build_duration_seconds",
				Help:    "Duration of section catalog builds in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"section", "status"},
		),
		catalogEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelfsync_catalog_entries",
				Help: "Entries in the most recent catalog of a section",
			},
			[]string{"section"},
		),
		catalogSkipped: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelfsync_catalog_skipped",
				Help: "Skipped files in the most recent catalog of a section",
			},
			[]string{"section"},
		),
		skippedEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfsync_skipped_entries_total",
				Help: "Total number of files skipped while building catalogs",
			},
			[]string{"section", "reason"},
		),
		lastSyncSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelfsync_last_sync_success_timestamp_seconds",
				Help: "Unix time of the last successful sync",
			},
		),
	}
}

func (p *PrometheusMetrics) ObserveCatalogBuild(metric domain.CatalogBuildMetric) {
	p.buildDuration.WithLabelValues(metric.Section, string(metric.Status)).Observe(metric.Duration.Seconds())
	if metric.Status != domain.SyncStatusSuccess {
		return
	}
	p.catalogEntries.WithLabelValues(metric.Section).Set(float64(metric.Entries))
	p.catalogSkipped.WithLabelValues(metric.Section).Set(float64(metric.Skipped))
}

func (p *PrometheusMetrics) ObserveSkippedEntry(section string, reason domain.SkipReason) {
	p.skippedEntries.WithLabelValues(section, string(reason)).Inc()
}

func (p *PrometheusMetrics) ObserveSync(status domain.SyncStatus, duration time.Duration) {
	p.syncDuration.WithLabelValues(string(status)).Observe(duration.Seconds())
	p.syncTotal.WithLabelValues(string(status)).Inc()
	if status == domain.SyncStatusSuccess {
		p.lastSyncSuccess.SetToCurrentTime()
	}
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
