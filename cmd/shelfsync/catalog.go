package main

import (
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the catalog entries without writing a manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, _, err := newApplication(cmd, opts)
			if err != nil {
				return exitForSync(err)
			}
			result, err := application.Collect(ctx)
			if err != nil {
				return exitForSync(err)
			}
			if err := printCatalog(cmd.OutOrStdout(), result, opts.jsonOutput); err != nil {
				return err
			}
			if len(result.Failures) > 0 {
				return exitSilent(exitSectionFailed)
			}
			return nil
		},
	}
}
