package main

import (
	"time"

	"github.com/spf13/cobra"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/manifest"
)

func newSyncCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Build the catalog once and write the menu manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, cfg, err := newApplication(cmd, opts)
			if err != nil {
				return exitForSync(err)
			}

			host := manifest.NewHost()
			result, syncErr := application.Sync(ctx, host, host)
			if err := emitManifest(cmd, cfg, host.Manifest(result, time.Now())); err != nil {
				return err
			}
			if syncErr != nil {
				return exitForSync(syncErr)
			}
			printSyncSummary(stderr(cmd), result)
			if len(result.Failures) > 0 {
				return exitSilent(exitSectionFailed)
			}
			return nil
		},
	}
}

// publishManifest returns the watch callback that rewrites the manifest for
// every catalog state. A failed state produces a manifest with no menus and
// the message the user would have seen from a one-shot sync.
func publishManifest(application interface {
	Register(domain.SyncResult, domain.MenuHost, domain.Notifier) error
	Notify(error, domain.Notifier)
}, cmd *cobra.Command, cfg domain.Config) func(state domain.CatalogState) error {
	return func(state domain.CatalogState) error {
		host := manifest.NewHost()
		if state.Failed() {
			application.Notify(state.Err, host)
			return emitManifest(cmd, cfg, host.Manifest(state.Result, state.LoadedAt))
		}
		if err := application.Register(state.Result, host, host); err != nil {
			return err
		}
		return emitManifest(cmd, cfg, host.Manifest(state.Result, state.LoadedAt))
	}
}
