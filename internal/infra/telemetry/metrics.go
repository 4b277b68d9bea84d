package telemetry

import (
	"time"

	"shelfsync/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveCatalogBuild(_ domain.CatalogBuildMetric) {}

func (n *NoopMetrics) ObserveSkippedEntry(_ string, _ domain.SkipReason) {}

func (n *NoopMetrics) ObserveSync(_ domain.SyncStatus, _ time.Duration) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
