package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfsync/internal/domain"
)

func TestPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveCatalogBuild(domain.CatalogBuildMetric{
		Section:  "gizmos",
		Status:   domain.SyncStatusSuccess,
		Entries:  3,
		Skipped:  1,
		Duration: 5 * time.Millisecond,
	})
	m.ObserveSkippedEntry("gizmos", domain.SkipEmptyStem)
	m.ObserveSync(domain.SyncStatusSuccess, 20*time.Millisecond)

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.GetName())
	}

	assert.Contains(t, names, "shelfsync_sync_duration_seconds")
	assert.Contains(t, names, "shelfsync_sync_total")
	assert.Contains(t, names, "shelfsync_catalog_build_duration_seconds")
	assert.Contains(t, names, "shelfsync_catalog_entries")
	assert.Contains(t, names, "shelfsync_catalog_skipped")
	assert.Contains(t, names, "shelfsync_skipped_entries_total")
	assert.Contains(t, names, "shelfsync_last_sync_success_timestamp_seconds")

	assert.Equal(t, float64(3), testutil.ToFloat64(m.catalogEntries.WithLabelValues("gizmos")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.skippedEntries.WithLabelValues("gizmos", string(domain.SkipEmptyStem))))
}

func TestPrometheusMetrics_FailedBuildKeepsGauges(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	m.ObserveCatalogBuild(domain.CatalogBuildMetric{Section: "gizmos", Status: domain.SyncStatusSuccess, Entries: 4})
	m.ObserveCatalogBuild(domain.CatalogBuildMetric{Section: "gizmos", Status: domain.SyncStatusError})

	assert.Equal(t, float64(4), testutil.ToFloat64(m.catalogEntries.WithLabelValues("gizmos")))
}
