package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shelfsync/internal/infra/manifest"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration, or a written manifest with --manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if manifestPath != "" {
				return validateManifestFile(cmd, opts, manifestPath)
			}
			cfg, err := loadConfig(cmd.Context(), cmd, opts)
			if err != nil {
				return exitForSync(err)
			}
			if opts.jsonOutput {
				sections := make([]string, 0, len(cfg.Sections))
				for _, section := range cfg.Sections {
					sections = append(sections, section.Name)
				}
				return writeJSON(w, map[string]any{
					"valid":       true,
					"toolsFolder": cfg.ToolsFolder,
					"sections":    sections,
				})
			}
			fmt.Fprintf(w, "configuration valid: tools_folder=%s sections=%d\n", cfg.ToolsFolder, len(cfg.Sections))
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file to validate instead of the configuration")
	return cmd
}

func validateManifestFile(cmd *cobra.Command, opts *cliOptions, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	format := manifest.FormatFromPath(path)
	if cmd.Flags().Changed("format") {
		format = opts.format
	}
	m, err := manifest.ReadAndValidate(file, format)
	if err != nil {
		return exitError{code: exitSectionFailed, message: err.Error(), cause: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "manifest valid: version=%s menus=%d messages=%d\n", m.Version, len(m.Menus), len(m.Messages))
	return nil
}
