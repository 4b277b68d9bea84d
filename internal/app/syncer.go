package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/discovery"
	"shelfsync/internal/infra/telemetry"
)

const publishIdentifier = "publish_selection"

// RootLocator resolves the sync root for an account profile.
type RootLocator interface {
	Locate(ctx context.Context, account string) (string, error)
}

// CatalogBuilder walks one section of the tools folder.
type CatalogBuilder interface {
	Build(ctx context.Context, toolsFolder string, section domain.Section) (domain.Catalog, error)
}

// SyncerOptions configures a Syncer.
type SyncerOptions struct {
	Config  domain.Config
	Locator RootLocator
	Builder CatalogBuilder
	Metrics domain.Metrics
	Logger  *zap.Logger
}

// Syncer turns the shared tools folder into host menu registrations.
type Syncer struct {
	cfg     domain.Config
	locator RootLocator
	builder CatalogBuilder
	metrics domain.Metrics
	logger  *zap.Logger
}

func NewSyncer(opts SyncerOptions) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Syncer{
		cfg:     opts.Config,
		locator: opts.Locator,
		builder: opts.Builder,
		metrics: metrics,
		logger:  logger.Named("sync"),
	}
}

// Sync collects every section and registers the result with host. A
// configuration-level failure stops the run and is reported to notifier
// exactly once; a failing section is reported on its own and the other
// sections are still registered.
func (s *Syncer) Sync(ctx context.Context, host domain.MenuHost, notifier domain.Notifier) (domain.SyncResult, error) {
	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = telemetry.NewRunID()
		ctx = telemetry.WithRunID(ctx, runID)
	}
	logger := s.logger.With(telemetry.RunIDField(runID))
	start := time.Now()
	logger.Info("sync started", telemetry.EventField(telemetry.EventSyncStart))

	result, err := s.Collect(ctx)
	if err != nil {
		s.metrics.ObserveSync(domain.SyncStatusError, time.Since(start))
		logger.Error("sync failed",
			telemetry.EventField(telemetry.EventSyncFailure),
			telemetry.DurationField(time.Since(start)),
			zap.Error(err),
		)
		s.Notify(err, notifier)
		return result, err
	}

	if err := s.Register(result, host, notifier); err != nil {
		s.metrics.ObserveSync(domain.SyncStatusError, time.Since(start))
		logger.Error("menu registration failed",
			telemetry.EventField(telemetry.EventSyncFailure),
			zap.Error(err),
		)
		return result, err
	}

	status := domain.SyncStatusSuccess
	if len(result.Failures) > 0 {
		status = domain.SyncStatusError
	}
	s.metrics.ObserveSync(status, time.Since(start))
	logger.Info("sync completed",
		telemetry.EventField(telemetry.EventSyncSuccess),
		telemetry.DurationField(time.Since(start)),
		telemetry.EntriesField(result.Entries()),
		telemetry.SkippedField(result.Skipped()),
		zap.Int("failed_sections", len(result.Failures)),
	)
	return result, nil
}

// Collect resolves the tools folder and builds every section without
// touching the host. Section failures land in SyncResult.Failures.
func (s *Syncer) Collect(ctx context.Context) (domain.SyncResult, error) {
	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = telemetry.NewRunID()
	}
	result := domain.SyncResult{RunID: runID}
	logger := s.logger.With(telemetry.RunIDField(runID))

	root, err := s.syncRoot(ctx)
	if err != nil {
		return result, err
	}
	result.SyncRoot = root

	toolsFolder, err := discovery.LocateFolder(ctx, root, s.cfg.ToolsFolder, s.cfg.DuplicateFolders)
	if err != nil {
		return result, err
	}
	result.ToolsFolder = toolsFolder
	logger.Debug("tools folder located", zap.String("path", toolsFolder))

	for _, section := range s.cfg.Sections {
		start := time.Now()
		catalog, err := s.builder.Build(ctx, toolsFolder, section)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		metric := domain.CatalogBuildMetric{
			Section:  section.Name,
			Status:   domain.SyncStatusSuccess,
			Entries:  len(catalog.Entries),
			Skipped:  len(catalog.Skipped),
			Duration: time.Since(start),
		}
		if err != nil {
			metric.Status = domain.SyncStatusError
			s.metrics.ObserveCatalogBuild(metric)
			if result.Failures == nil {
				result.Failures = make(map[string]error)
			}
			result.Failures[section.Name] = err
			logger.Warn("section sync failed",
				telemetry.EventField(telemetry.EventSectionFailure),
				telemetry.SectionField(section.Name),
				zap.Error(err),
			)
			continue
		}
		s.metrics.ObserveCatalogBuild(metric)
		logger.Info("catalog built",
			telemetry.EventField(telemetry.EventCatalogBuilt),
			telemetry.SectionField(section.Name),
			telemetry.EntriesField(metric.Entries),
			telemetry.SkippedField(metric.Skipped),
			telemetry.DurationField(metric.Duration),
		)
		result.Catalogs = append(result.Catalogs, catalog)
	}
	return result, nil
}

// Register replays a collected result onto host: plugin paths first, then
// one menu per section with its commands in catalog order, then the publish
// command. Each failed section produces one message.
func (s *Syncer) Register(result domain.SyncResult, host domain.MenuHost, notifier domain.Notifier) error {
	var errs error
	for _, catalog := range result.Catalogs {
		errs = multierr.Append(errs, registerCatalog(host, catalog))
	}
	for _, section := range s.cfg.Sections {
		if err, failed := result.Failures[section.Name]; failed {
			s.notify(notifier, s.userMessage(err, section.Name))
		}
	}
	if s.cfg.Publish.Enabled && result.ToolsFolder != "" {
		errs = multierr.Append(errs, s.registerPublish(host, result.ToolsFolder))
	}
	return errs
}

// Notify reports a run-level failure to the user. Cancellation is silent.
func (s *Syncer) Notify(err error, notifier domain.Notifier) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.notify(notifier, s.userMessage(err, s.cfg.ToolsFolder))
}

func (s *Syncer) notify(notifier domain.Notifier, text string) {
	if notifier == nil {
		s.logger.Warn("no notifier for user message", zap.String("message", text))
		return
	}
	notifier.ShowMessage(text)
}

func (s *Syncer) syncRoot(ctx context.Context) (string, error) {
	if s.cfg.SyncRoot != "" {
		return s.cfg.SyncRoot, nil
	}
	if s.locator == nil {
		return "", domain.E(domain.CodeInternal, "sync", "no sync root locator configured", nil)
	}
	return s.locator.Locate(ctx, s.cfg.AccountType)
}

func (s *Syncer) registerPublish(host domain.MenuHost, toolsFolder string) error {
	menu, err := host.AddMenu(s.cfg.HostMenu, s.cfg.PluginMenu, "")
	if err != nil {
		return fmt.Errorf("add menu %s/%s: %w", s.cfg.HostMenu, s.cfg.PluginMenu, err)
	}
	cmd := domain.Command{
		Kind:       domain.CommandPublish,
		Identifier: publishIdentifier,
		Path:       toolsFolder,
	}
	if err := menu.AddCommand(s.cfg.Publish.Label, cmd, ""); err != nil {
		return fmt.Errorf("add command %s: %w", s.cfg.Publish.Label, err)
	}
	return nil
}

func registerCatalog(host domain.MenuHost, catalog domain.Catalog) error {
	var errs error
	for _, path := range catalog.PluginPaths {
		errs = multierr.Append(errs, host.AddPluginPath(path))
	}
	section := catalog.Section
	menu, err := host.AddMenu(section.Toolbar, section.Menu, section.MenuIcon)
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("add menu %s/%s: %w", section.Toolbar, section.Menu, err))
	}
	for _, entry := range catalog.Entries {
		if err := menu.AddCommand(entry.DisplayPath, entry.Command, entry.IconName); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("add command %s: %w", entry.DisplayPath, err))
		}
	}
	return errs
}
