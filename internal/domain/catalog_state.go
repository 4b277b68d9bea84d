package domain

import "time"

// CatalogState captures the current sync result and metadata. Err is set
// when the run failed before any section was built; Result then holds only
// what was resolved before the failure.
type CatalogState struct {
	Result   SyncResult
	ETag     string
	Revision uint64
	LoadedAt time.Time
	Source   CatalogUpdateSource
	Err      error
}

// NewCatalogState builds a catalog state from a sync result.
func NewCatalogState(result SyncResult, etag string, revision uint64, loadedAt time.Time) CatalogState {
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	return CatalogState{
		Result:   result,
		ETag:     etag,
		Revision: revision,
		LoadedAt: loadedAt,
	}
}

// NewFailedCatalogState builds the state of a run that stopped with err.
func NewFailedCatalogState(result SyncResult, err error, revision uint64, loadedAt time.Time) CatalogState {
	state := NewCatalogState(result, "", revision, loadedAt)
	state.Err = err
	return state
}

// Failed reports whether the state comes from a run-level failure.
func (s CatalogState) Failed() bool {
	return s.Err != nil
}
