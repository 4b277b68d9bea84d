package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelfsync/internal/app"
	"shelfsync/internal/domain"
	"shelfsync/internal/infra/manifest"
)

func newWatchCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the menu manifest whenever the tools folder changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, cfg, err := newApplication(cmd, opts)
			if err != nil {
				return exitForSync(err)
			}

			publish := publishManifest(application, cmd, cfg)
			err = application.Watch(ctx, app.WatchOptions{
				Publish: func(_ context.Context, state domain.CatalogState) error {
					return publish(state)
				},
			})
			if err != nil {
				host := manifest.NewHost()
				application.Notify(err, host)
				if emitErr := emitManifest(cmd, cfg, host.Manifest(domain.SyncResult{}, time.Now())); emitErr != nil {
					opts.logger.Warn("manifest write failed", zap.Error(emitErr))
				}
				return exitForSync(err)
			}
			return nil
		},
	}

	cmd.Flags().String("metrics-listen", "", "serve /metrics and /healthz on this address")
	cmd.Flags().Duration("debounce", time.Duration(domain.DefaultReloadDebounceMilli)*time.Millisecond, "quiet period before rebuilding after a change")
	return cmd
}
