package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	appcatalog "shelfsync/internal/app/catalog"
	"shelfsync/internal/domain"
	"shelfsync/internal/infra/telemetry"
)

// Application wires the sync core and its dependencies.
type Application struct {
	cfg      domain.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  domain.Metrics
	health   *telemetry.HealthTracker
	syncer   *Syncer
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Config   domain.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  domain.Metrics
	Health   *telemetry.HealthTracker
	Syncer   *Syncer
}

// NewApplication constructs the application.
func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	health := opts.Health
	if health == nil {
		health = telemetry.NewHealthTracker()
	}
	return &Application{
		cfg:      opts.Config,
		logger:   logger,
		registry: opts.Registry,
		metrics:  opts.Metrics,
		health:   health,
		syncer:   opts.Syncer,
	}
}

// Config returns the configuration the application was built with.
func (a *Application) Config() domain.Config {
	return a.cfg
}

// Health returns the tracker that records sync outcomes.
func (a *Application) Health() *telemetry.HealthTracker {
	return a.health
}

// Sync runs one full sync against host.
func (a *Application) Sync(ctx context.Context, host domain.MenuHost, notifier domain.Notifier) (domain.SyncResult, error) {
	result, err := a.syncer.Sync(ctx, host, notifier)
	a.health.Record(1, time.Now(), firstFailure(result, err))
	return result, err
}

// Collect builds the catalogs without registering them.
func (a *Application) Collect(ctx context.Context) (domain.SyncResult, error) {
	return a.syncer.Collect(ctx)
}

// Register replays a collected result onto host.
func (a *Application) Register(result domain.SyncResult, host domain.MenuHost, notifier domain.Notifier) error {
	return a.syncer.Register(result, host, notifier)
}

// Notify reports a run-level failure to the user.
func (a *Application) Notify(err error, notifier domain.Notifier) {
	a.syncer.Notify(err, notifier)
}

// WatchOptions configures Application.Watch.
type WatchOptions struct {
	// Publish is called with the initial state and after every change,
	// including refreshes that failed at run level (state.Err set).
	Publish func(ctx context.Context, state domain.CatalogState) error
}

// Watch collects the catalog, publishes it, and republishes whenever the
// tools folder changes until ctx is done. A refresh that fails at run level
// is published as a failed state and marks health degraded until a later
// refresh succeeds. When a metrics address is configured, /metrics and
// /healthz are served alongside.
func (a *Application) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Publish == nil {
		return domain.E(domain.CodeInvalidArgument, "watch", "publish callback is required", nil)
	}

	serverErr := make(chan error, 1)
	if addr := a.cfg.Watch.MetricsListen; addr != "" {
		var gatherer prometheus.Gatherer
		if a.registry != nil {
			gatherer = a.registry
		}
		go func() {
			serverErr <- telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
				Addr:     addr,
				Health:   a.health,
				Registry: gatherer,
			}, a.logger)
		}()
	}

	provider, err := appcatalog.NewDynamicCatalogProvider(ctx, appcatalog.DynamicCatalogProviderOptions{
		Collector: a.syncer,
		Debounce:  a.cfg.Watch.Debounce,
		Logger:    a.logger,
	})
	if err != nil {
		a.health.Record(0, time.Now(), err)
		return err
	}
	state, err := provider.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := a.publish(ctx, opts, state); err != nil {
		return err
	}

	updates, err := provider.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-serverErr:
			if err != nil {
				return err
			}
		case update := <-updates:
			if update.Snapshot.Failed() {
				a.logger.Warn("tools folder sync failed",
					zap.Uint64("revision", update.Snapshot.Revision),
					zap.String("source", string(update.Source)),
					zap.Error(update.Snapshot.Err),
				)
			} else {
				a.logger.Info("tools folder changed",
					zap.Uint64("revision", update.Snapshot.Revision),
					zap.String("source", string(update.Source)),
					zap.Strings("added", update.Diff.AddedEntries),
					zap.Strings("removed", update.Diff.RemovedEntries),
				)
			}
			if err := a.publish(ctx, opts, update.Snapshot); err != nil {
				a.logger.Warn("publish failed", zap.Error(err))
			}
		}
	}
}

func (a *Application) publish(ctx context.Context, opts WatchOptions, state domain.CatalogState) error {
	err := opts.Publish(ctx, state)
	a.health.Record(state.Revision, state.LoadedAt, firstFailure(state.Result, multierr.Append(state.Err, err)))
	return err
}

func firstFailure(result domain.SyncResult, err error) error {
	if err != nil {
		return err
	}
	var errs error
	for _, failure := range result.Failures {
		errs = multierr.Append(errs, failure)
	}
	return errs
}
