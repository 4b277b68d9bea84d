package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelfsync/internal/infra/discovery"
	"shelfsync/internal/infra/syncroot"
)

type locateResult struct {
	SyncRoot string `json:"syncRoot"`
	Folder   string `json:"folder"`
	File     string `json:"file,omitempty"`
}

func newLocateCmd(opts *cliOptions) *cobra.Command {
	var folder, file string
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the sync root, a folder below it and optionally a file inside that folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			cfg, err := loadConfig(ctx, cmd, opts)
			if err != nil {
				return exitForSync(err)
			}
			if folder == "" {
				folder = cfg.ToolsFolder
			}

			root := cfg.SyncRoot
			if root == "" {
				locator := syncroot.NewLocator(syncroot.Options{Candidates: cfg.InfoPaths, Logger: opts.logger})
				root, err = locator.Locate(ctx, cfg.AccountType)
				if err != nil {
					return exitForSync(err)
				}
			}

			out := locateResult{SyncRoot: root}
			out.Folder, err = discovery.LocateFolder(ctx, root, folder, cfg.DuplicateFolders)
			if err != nil {
				return exitForSync(err)
			}
			if file != "" {
				out.File, err = discovery.FindFile(out.Folder, file)
				if err != nil {
					return exitError{code: exitSectionFailed, message: err.Error()}
				}
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(w, out)
			}
			fmt.Fprintf(w, "sync_root=%s\nfolder=%s\n", out.SyncRoot, out.Folder)
			if out.File != "" {
				fmt.Fprintf(w, "file=%s\n", out.File)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder name to find below the sync root (defaults to the tools folder)")
	cmd.Flags().StringVar(&file, "file", "", "file name to find inside the located folder")
	return cmd
}
