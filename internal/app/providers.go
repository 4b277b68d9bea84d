package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/catalog"
	"shelfsync/internal/infra/syncroot"
	"shelfsync/internal/infra/telemetry"
)

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewRootLocator(cfg domain.Config, logger *zap.Logger) RootLocator {
	return syncroot.NewLocator(syncroot.Options{
		Candidates: cfg.InfoPaths,
		Logger:     logger,
	})
}

func NewCatalogBuilder(cfg domain.Config, metrics domain.Metrics, logger *zap.Logger) CatalogBuilder {
	return catalog.NewBuilder(catalog.BuilderOptions{
		ToolExtensions: cfg.ToolExtensions,
		IconExtensions: cfg.IconExtensions,
		Logger:         logger,
		Metrics:        metrics,
	})
}

func NewSyncerProvider(
	cfg domain.Config,
	locator RootLocator,
	builder CatalogBuilder,
	metrics domain.Metrics,
	logger *zap.Logger,
) *Syncer {
	return NewSyncer(SyncerOptions{
		Config:  cfg,
		Locator: locator,
		Builder: builder,
		Metrics: metrics,
		Logger:  logger,
	})
}
