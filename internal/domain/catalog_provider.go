package domain

import "context"

// CatalogUpdateSource names what triggered a catalog collection.
type CatalogUpdateSource string

const (
	// CatalogUpdateSourceBootstrap marks the first collection of a watch session.
	CatalogUpdateSourceBootstrap CatalogUpdateSource = "bootstrap"
	// CatalogUpdateSourceWatch marks a collection after a change under the tools folder.
	CatalogUpdateSourceWatch CatalogUpdateSource = "watch"
	// CatalogUpdateSourceManual marks a refresh requested through Reload.
	CatalogUpdateSourceManual CatalogUpdateSource = "manual"
)

// CatalogUpdate is sent to subscribers when the synced tools change or when
// a refresh fails at run level. A failed update has Snapshot.Err set and an
// empty catalog; the previous menus are no longer valid.
type CatalogUpdate struct {
	Snapshot CatalogState
	Diff     CatalogDiff
	Source   CatalogUpdateSource
}

// CatalogProvider keeps the synced catalog of the shared tools folder current.
type CatalogProvider interface {
	// Snapshot returns the latest state, failed or not.
	Snapshot(ctx context.Context) (CatalogState, error)
	// Watch subscribes to updates until ctx is done.
	Watch(ctx context.Context) (<-chan CatalogUpdate, error)
	// Reload discards the current catalog and collects it again.
	Reload(ctx context.Context) error
}
