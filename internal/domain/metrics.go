package domain

import "time"

// SyncStatus labels the outcome of a sync run or catalog build.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
)

// CatalogBuildMetric captures one section build.
type CatalogBuildMetric struct {
	Section  string
	Status   SyncStatus
	Entries  int
	Skipped  int
	Duration time.Duration
}

// Metrics records operational metrics for sync runs.
type Metrics interface {
	ObserveCatalogBuild(metric CatalogBuildMetric)
	ObserveSkippedEntry(section string, reason SkipReason)
	ObserveSync(status SyncStatus, duration time.Duration)
}
