package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/hashutil"
	"shelfsync/internal/infra/telemetry"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Collector produces a full sync result from the current state of disk.
type Collector interface {
	Collect(ctx context.Context) (domain.SyncResult, error)
}

// DynamicCatalogProviderOptions configures a DynamicCatalogProvider.
type DynamicCatalogProviderOptions struct {
	Collector Collector
	Debounce  time.Duration
	Logger    *zap.Logger
}

// DynamicCatalogProvider collects the catalog and recollects it whenever
// something under the tools folder changes. A recollection that fails at
// run level replaces the catalog with a failed state and is published like
// any other change.
type DynamicCatalogProvider struct {
	logger    *zap.Logger
	collector Collector
	debounce  time.Duration

	state    atomic.Value
	revision atomic.Uint64

	subsMu sync.Mutex
	subs   map[chan domain.CatalogUpdate]struct{}

	reloadMu  sync.Mutex
	watchOnce sync.Once
	watchCtx  context.Context
	rootCh    chan string
}

var _ domain.CatalogProvider = (*DynamicCatalogProvider)(nil)

// NewDynamicCatalogProvider collects an initial catalog. Watching starts
// with the first call to Watch.
func NewDynamicCatalogProvider(ctx context.Context, opts DynamicCatalogProviderOptions) (*DynamicCatalogProvider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultReloadDebounce
	}

	provider := &DynamicCatalogProvider{
		logger:    logger.Named("catalog_provider"),
		collector: opts.Collector,
		debounce:  debounce,
		subs:      make(map[chan domain.CatalogUpdate]struct{}),
		watchCtx:  ctx,
		rootCh:    make(chan string, 1),
	}

	result, err := opts.Collector.Collect(telemetry.WithRunID(ctx, telemetry.NewRunID()))
	if err != nil {
		return nil, err
	}
	state := domain.NewCatalogState(result, hashutil.CatalogETag(provider.logger, result), 1, time.Now())
	state.Source = domain.CatalogUpdateSourceBootstrap
	provider.state.Store(state)
	provider.revision.Store(state.Revision)
	return provider, nil
}

// Snapshot returns the current catalog snapshot.
func (p *DynamicCatalogProvider) Snapshot(ctx context.Context) (domain.CatalogState, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return domain.CatalogState{}, err
		}
	}
	state := p.state.Load().(domain.CatalogState)
	return state, nil
}

// Watch subscribes to catalog updates.
func (p *DynamicCatalogProvider) Watch(ctx context.Context) (<-chan domain.CatalogUpdate, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan domain.CatalogUpdate, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	p.watchOnce.Do(func() {
		go p.runWatcher(p.watchCtx)
	})

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()

	return ch, nil
}

// Reload forces a full recollection.
func (p *DynamicCatalogProvider) Reload(ctx context.Context) error {
	return p.reload(ctx, domain.CatalogUpdateSourceManual)
}

func (p *DynamicCatalogProvider) reload(ctx context.Context, source domain.CatalogUpdateSource) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	prev := p.state.Load().(domain.CatalogState)
	result, err := p.collector.Collect(telemetry.WithRunID(ctx, telemetry.NewRunID()))
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.fail(prev, result, source, err)
		return err
	}
	etag := hashutil.CatalogETag(p.logger, result)
	if !prev.Failed() && etag != "" && etag == prev.ETag {
		return nil
	}

	nextRevision := p.revision.Load() + 1
	next := domain.NewCatalogState(result, etag, nextRevision, time.Now())
	diff := domain.DiffCatalogStates(prev, next)
	next.Source = source
	if !prev.Failed() && diff.IsEmpty() && prev.Result.ToolsFolder == next.Result.ToolsFolder {
		return nil
	}

	p.revision.Store(nextRevision)
	p.state.Store(next)
	p.logger.Info("catalog reloaded",
		telemetry.EventField(telemetry.EventReload),
		zap.String("source", string(source)),
		zap.Uint64("revision", nextRevision),
		zap.Int("added", len(diff.AddedEntries)),
		zap.Int("removed", len(diff.RemovedEntries)),
		zap.Int("updated", len(diff.UpdatedEntries)),
	)
	if prev.Result.ToolsFolder != next.Result.ToolsFolder {
		select {
		case p.rootCh <- next.Result.ToolsFolder:
		default:
		}
	}
	p.broadcast(domain.CatalogUpdate{
		Snapshot: next,
		Diff:     diff,
		Source:   source,
	})
	return nil
}

// fail replaces the catalog with a failed state. Repeating the failure that
// is already current publishes nothing.
func (p *DynamicCatalogProvider) fail(prev domain.CatalogState, result domain.SyncResult, source domain.CatalogUpdateSource, err error) {
	if prev.Failed() && prev.Err.Error() == err.Error() {
		return
	}
	// Keep following the folder of the replaced catalog so the watcher sees
	// it come back.
	if result.ToolsFolder == "" {
		result.ToolsFolder = prev.Result.ToolsFolder
	}
	revision := p.revision.Load() + 1
	next := domain.NewFailedCatalogState(result, err, revision, time.Now())
	next.Source = source
	diff := domain.DiffCatalogStates(prev, next)

	p.revision.Store(revision)
	p.state.Store(next)
	p.logger.Warn("catalog reload failed",
		telemetry.EventField(telemetry.EventReload),
		zap.String("source", string(source)),
		zap.Uint64("revision", revision),
		zap.Int("removed", len(diff.RemovedEntries)),
		zap.Error(err),
	)
	p.broadcast(domain.CatalogUpdate{
		Snapshot: next,
		Diff:     diff,
		Source:   source,
	})
}

func (p *DynamicCatalogProvider) broadcast(update domain.CatalogUpdate) {
	subs := p.copySubscribers()
	for _, ch := range subs {
		select {
		case ch <- update:
		default:
		}
	}
}

func (p *DynamicCatalogProvider) copySubscribers() []chan domain.CatalogUpdate {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	out := make([]chan domain.CatalogUpdate, 0, len(p.subs))
	for ch := range p.subs {
		out = append(out, ch)
	}
	return out
}

func (p *DynamicCatalogProvider) runWatcher(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("folder watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	root := p.state.Load().(domain.CatalogState).Result.ToolsFolder
	p.watchTree(watcher, root)
	p.watchParent(watcher, root)

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-p.rootCh:
			if root != "" {
				p.unwatchTree(watcher, root)
				if filepath.Dir(root) != filepath.Dir(next) {
					_ = watcher.Remove(filepath.Dir(root))
				}
			}
			root = next
			p.watchTree(watcher, root)
			p.watchParent(watcher, root)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				p.logger.Warn("folder watcher error", zap.Error(err))
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !withinRoot(event.Name, root) {
				continue
			}
			if event.Has(fsnotify.Create) {
				p.watchTree(watcher, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.debounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.reload(ctx, domain.CatalogUpdateSourceWatch); err != nil {
				p.logger.Debug("catalog reload returned error", zap.Error(err))
			}
		}
	}
}

// watchTree adds root and every directory below it. Symlinked directories
// are not followed.
func (p *DynamicCatalogProvider) watchTree(watcher *fsnotify.Watcher, root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root {
				p.logger.Debug("folder watcher skip", zap.String("path", path), zap.Error(err))
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			p.logger.Warn("folder watcher add failed", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

// watchParent watches the directory holding root so that removing, renaming
// or recreating the tools folder itself is seen. Events for siblings are
// filtered out by withinRoot.
func (p *DynamicCatalogProvider) watchParent(watcher *fsnotify.Watcher, root string) {
	if root == "" {
		return
	}
	parent := filepath.Dir(filepath.Clean(root))
	if parent == root {
		return
	}
	if err := watcher.Add(parent); err != nil {
		p.logger.Debug("folder watcher parent add failed", zap.String("path", parent), zap.Error(err))
	}
}

func (p *DynamicCatalogProvider) unwatchTree(watcher *fsnotify.Watcher, root string) {
	for _, path := range watcher.WatchList() {
		if withinRoot(path, root) {
			_ = watcher.Remove(path)
		}
	}
}

func withinRoot(path, root string) bool {
	if path == "" || root == "" {
		return false
	}
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
