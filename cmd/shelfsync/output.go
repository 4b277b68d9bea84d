package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/manifest"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// manifestFormat prefers an explicit format, then the output file's
// extension, then the configured default.
func manifestFormat(cmd *cobra.Command, cfg domain.Config) string {
	if cmd.Flags().Changed("format") || cfg.Manifest.Format != domain.DefaultManifestFormat {
		return cfg.Manifest.Format
	}
	if isStdout(cfg.Manifest.Output) {
		return cfg.Manifest.Format
	}
	return manifest.FormatFromPath(cfg.Manifest.Output)
}

func isStdout(path string) bool {
	path = strings.TrimSpace(path)
	return path == "" || path == "-"
}

func emitManifest(cmd *cobra.Command, cfg domain.Config, m manifest.Manifest) error {
	format := manifestFormat(cmd, cfg)
	if isStdout(cfg.Manifest.Output) {
		return manifest.Encode(cmd.OutOrStdout(), m, format)
	}
	return manifest.WriteFile(cfg.Manifest.Output, m, format)
}

func printSyncSummary(w io.Writer, result domain.SyncResult) {
	fmt.Fprintf(w, "sync_root=%s tools_folder=%s entries=%d skipped=%d failed_sections=%d\n",
		result.SyncRoot, result.ToolsFolder, result.Entries(), result.Skipped(), len(result.Failures))
	for _, catalog := range result.Catalogs {
		skipErr := catalog.SkipErr()
		if skipErr == nil {
			continue
		}
		for _, err := range multierr.Errors(skipErr) {
			fmt.Fprintf(w, "skipped section=%s: %v\n", catalog.Section.Name, err)
		}
	}
}

type catalogEntryView struct {
	Section     string         `json:"section"`
	DisplayPath string         `json:"displayPath"`
	Identifier  string         `json:"identifier"`
	IconName    string         `json:"iconName,omitempty"`
	Path        string         `json:"path"`
	Command     domain.Command `json:"command"`
}

type skippedEntryView struct {
	Section string `json:"section"`
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Error   string `json:"error,omitempty"`
}

type catalogView struct {
	RunID       string             `json:"runId"`
	SyncRoot    string             `json:"syncRoot"`
	ToolsFolder string             `json:"toolsFolder"`
	Entries     []catalogEntryView `json:"entries"`
	Skipped     []skippedEntryView `json:"skipped,omitempty"`
	Failures    map[string]string  `json:"failures,omitempty"`
}

func newCatalogView(result domain.SyncResult) catalogView {
	view := catalogView{
		RunID:       result.RunID,
		SyncRoot:    result.SyncRoot,
		ToolsFolder: result.ToolsFolder,
		Entries:     []catalogEntryView{},
	}
	for _, catalog := range result.Catalogs {
		for _, entry := range catalog.Entries {
			view.Entries = append(view.Entries, catalogEntryView{
				Section:     catalog.Section.Name,
				DisplayPath: entry.DisplayPath,
				Identifier:  entry.Identifier,
				IconName:    entry.IconName,
				Path:        entry.Path,
				Command:     entry.Command,
			})
		}
		for _, skipped := range catalog.Skipped {
			item := skippedEntryView{
				Section: catalog.Section.Name,
				Path:    skipped.Path,
				Reason:  string(skipped.Reason),
			}
			if skipped.Err != nil {
				item.Error = skipped.Err.Error()
			}
			view.Skipped = append(view.Skipped, item)
		}
	}
	if len(result.Failures) > 0 {
		view.Failures = make(map[string]string, len(result.Failures))
		for name, err := range result.Failures {
			view.Failures[name] = err.Error()
		}
	}
	return view
}

func printCatalog(w io.Writer, result domain.SyncResult, jsonOutput bool) error {
	view := newCatalogView(result)
	if jsonOutput {
		return writeJSON(w, view)
	}
	for _, entry := range view.Entries {
		icon := entry.IconName
		if icon == "" {
			icon = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Section, entry.DisplayPath, entry.Identifier, icon)
	}
	for _, skipped := range view.Skipped {
		fmt.Fprintf(w, "skipped\t%s\t%s\t%s\n", skipped.Section, skipped.Reason, skipped.Path)
	}
	for name, failure := range view.Failures {
		fmt.Fprintf(w, "failed\t%s\t%s\n", name, failure)
	}
	return nil
}

func stderr(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}
