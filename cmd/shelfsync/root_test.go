package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/manifest"
)

func makeSyncRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, path := range []string{
		"projects/sharedNukeTools/gizmos/Soft.gizmo",
		"projects/sharedNukeTools/gizmos/blur/Edge.gizmo",
		"projects/sharedNukeTools/ToolSets/Key.nk",
		"projects/sharedNukeTools/publish.nk",
	} {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	configPath := filepath.Join(t.TempDir(), "shelfsync.yaml")
	require.NoError(t, os.WriteFile(configPath, nil, 0o644))
	root.SetArgs(append([]string{"--log-level", "error", "--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSyncCommand_WritesManifest(t *testing.T) {
	syncRoot := makeSyncRoot(t)
	output := filepath.Join(t.TempDir(), "menus.toml")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sync", "--log-level", "error", "--sync-root", syncRoot, "-o", output})
	require.NoError(t, root.Execute())

	file, err := os.Open(output)
	require.NoError(t, err)
	defer file.Close()
	m, err := manifest.Decode(file, "toml")
	require.NoError(t, err)
	require.NotEmpty(t, m.RunID)
	require.Len(t, m.Menus, 3)
	require.Equal(t, "blur/Edge", m.Menus[0].Commands[1].DisplayPath)
	require.Empty(t, m.Messages)
}

func TestSyncCommand_ConfigFailureExitCode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "info.json")
	out, err := execute(t, "sync", "--info-path", missing, "--format", "json")
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, exitConfigFailed, exitErr.code)

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Len(t, m.Messages, 1)
	require.Contains(t, m.Messages[0], "info.json")
}

func TestCatalogCommand_JSON(t *testing.T) {
	syncRoot := makeSyncRoot(t)
	out, err := execute(t, "catalog", "--sync-root", syncRoot, "--json")
	require.NoError(t, err)

	var view catalogView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Entries, 3)
	require.Equal(t, "Soft", view.Entries[0].DisplayPath)
	require.Equal(t, "Key", view.Entries[2].DisplayPath)
	require.Equal(t, domain.CommandLoadToolset, view.Entries[2].Command.Kind)
}

func TestLocateCommand(t *testing.T) {
	syncRoot := makeSyncRoot(t)
	out, err := execute(t, "locate", "--sync-root", syncRoot, "--file", "publish.nk", "--json")
	require.NoError(t, err)

	var got locateResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	tools := filepath.Join(syncRoot, "projects", "sharedNukeTools")
	require.Equal(t, locateResult{
		SyncRoot: syncRoot,
		Folder:   tools,
		File:     filepath.Join(tools, "publish.nk"),
	}, got)

	_, err = execute(t, "locate", "--sync-root", syncRoot, "--folder", "nope")
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, exitConfigFailed, exitErr.code)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	require.Contains(t, out, "configuration valid")

	_, err = execute(t, "validate", "--duplicate-folders", "sometimes")
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValidateCommand_ExplicitMissingConfig(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"validate", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, root.Execute())
}

func TestApplyFlagOverrides_RenamesGizmoMenu(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("tools-folder", "", "")
	flags.String("account", "", "")
	require.NoError(t, flags.Parse([]string{"--tools-folder", "studioTools", "--account", "business"}))

	cfg := domain.DefaultConfig()
	applyFlagOverrides(flags, &cfg)

	require.Equal(t, "studioTools", cfg.ToolsFolder)
	require.Equal(t, "business", cfg.AccountType)
	require.Equal(t, "studioTools", cfg.Sections[0].Menu)
	require.Equal(t, domain.DefaultToolsetMenu, cfg.Sections[1].Menu)
}

func TestExitForSync(t *testing.T) {
	require.NoError(t, exitForSync(nil))

	err := exitForSync(&domain.FolderNotFoundError{Path: "/x", Name: "y"})
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, exitConfigFailed, exitErr.code)

	err = exitForSync(os.ErrPermission)
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, exitSectionFailed, exitErr.code)

	for _, configErr := range []error{
		domain.ErrConfigurationMissing,
		fmt.Errorf("read info.json: %w", domain.ErrConfigurationInvalid),
		&domain.DuplicateFolderError{Root: "/r", Name: "tools"},
		domain.ErrInvalidConfig,
	} {
		require.ErrorAs(t, exitForSync(configErr), &exitErr)
		require.Equal(t, exitConfigFailed, exitErr.code, configErr.Error())
	}

	require.ErrorAs(t, exitForSync(context.Canceled), &exitErr)
	require.Equal(t, exitSectionFailed, exitErr.code)
}

func TestPrintSyncSummary_ListsSkippedEntries(t *testing.T) {
	result := domain.SyncResult{
		SyncRoot:    "/sync",
		ToolsFolder: "/sync/tools",
		Catalogs: []domain.Catalog{
			{
				Section: domain.Section{Name: "gizmos"},
				Entries: []domain.CatalogEntry{{DisplayPath: "gizmos/Soft.gizmo"}},
				Skipped: []domain.SkippedEntry{{
					Path:   "/sync/tools/gizmos/.gizmo",
					Reason: domain.SkipEmptyStem,
					Err:    errors.New("empty name before extension"),
				}},
			},
			{Section: domain.Section{Name: "ToolSets"}},
		},
	}

	var out bytes.Buffer
	printSyncSummary(&out, result)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "sync_root=/sync tools_folder=/sync/tools entries=1 skipped=1 failed_sections=0", lines[0])
	require.Equal(t, "skipped section=gizmos: empty name before extension", lines[1])
}

type recordingApplication struct {
	registered int
	notified   []error
}

func (a *recordingApplication) Register(domain.SyncResult, domain.MenuHost, domain.Notifier) error {
	a.registered++
	return nil
}

func (a *recordingApplication) Notify(err error, notifier domain.Notifier) {
	a.notified = append(a.notified, err)
	notifier.ShowMessage("tools folder missing")
}

func TestPublishManifest_FailedStateWritesMessage(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cfg := domain.Config{Manifest: domain.ManifestConfig{Format: "json"}}
	application := &recordingApplication{}

	state := domain.NewFailedCatalogState(
		domain.SyncResult{RunID: "run-2", ToolsFolder: "/sync/tools"},
		&domain.FolderNotFoundError{Path: "/sync", Name: "tools"},
		2, time.Now(),
	)
	require.NoError(t, publishManifest(application, cmd, cfg)(state))

	require.Zero(t, application.registered)
	require.Len(t, application.notified, 1)
	require.ErrorIs(t, application.notified[0], domain.ErrFolderNotFound)

	got, err := manifest.Decode(&out, "json")
	require.NoError(t, err)
	require.Empty(t, got.Menus)
	require.Equal(t, []string{"tools folder missing"}, got.Messages)
	require.Equal(t, "run-2", got.RunID)
}

func TestValidateCommand_Manifest(t *testing.T) {
	syncRoot := makeSyncRoot(t)
	output := filepath.Join(t.TempDir(), "menus.yaml")
	_, err := execute(t, "sync", "--sync-root", syncRoot, "-o", output)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--manifest", output)
	require.NoError(t, err)
	require.Contains(t, out, "manifest valid: version=1.0.0 menus=3")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"2.0.0","runId":"x","generatedAt":"2026-01-01T00:00:00Z"}`), 0o644))
	_, err = execute(t, "validate", "--manifest", bad)
	require.Error(t, err)
}
