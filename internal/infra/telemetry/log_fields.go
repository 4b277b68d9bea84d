package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldSection    = "section"
	FieldRunID      = "sync_run"
	FieldDurationMs = "duration_ms"
	FieldEntries    = "entries"
	FieldSkipped    = "skipped"
)

const (
	EventSyncStart      = "sync_start"
	EventSyncSuccess    = "sync_success"
	EventSyncFailure    = "sync_failure"
	EventSectionFailure = "section_failure"
	EventCatalogBuilt   = "catalog_built"
	EventReload         = "reload"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func SectionField(section string) zap.Field {
	return zap.String(FieldSection, section)
}

func RunIDField(runID string) zap.Field {
	return zap.String(FieldRunID, runID)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func EntriesField(count int) zap.Field {
	return zap.Int(FieldEntries, count)
}

func SkippedField(count int) zap.Field {
	return zap.Int(FieldSkipped, count)
}
