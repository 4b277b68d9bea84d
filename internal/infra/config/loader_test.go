package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelfsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoader(zap.NewNop())

	cfg, err := loader.Load(context.Background(), "", true)
	require.NoError(t, err)
	if diff := cmp.Diff(domain.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	cfg, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultToolsFolder, cfg.ToolsFolder)

	_, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.Error(t, err)
}

func TestLoader_Success(t *testing.T) {
	file := writeTempConfig(t, `
accountType: business
toolsFolder: studioTools
menuIcon: studio.png
duplicateFolders: first
toolExtensions: [".gizmo"]
sections:
  - name: gizmos
  - name: ToolSets
    kind: toolset
publish:
  enabled: false
watch:
  debounceMillis: 50
  metricsListen: 127.0.0.1:9999
manifest:
  output: /tmp/menu.yaml
  format: YAML
`)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), file, false)
	require.NoError(t, err)

	want := domain.Config{
		AccountType:      "business",
		ToolsFolder:      "studioTools",
		DuplicateFolders: domain.DuplicatePolicyFirst,
		ToolExtensions:   []string{".gizmo"},
		IconExtensions:   domain.DefaultIconExtensions(),
		PluginMenu:       domain.DefaultPluginMenu,
		HostMenu:         domain.DefaultHostMenu,
		MenuIcon:         "studio.png",
		Sections: []domain.Section{
			{Name: "gizmos", Kind: domain.SectionGizmo, Toolbar: "Nodes", Menu: "studioTools", MenuIcon: "studio.png"},
			{Name: "ToolSets", Kind: domain.SectionToolset, Toolbar: "Nodes", Menu: "ToolSets"},
		},
		Publish: domain.PublishConfig{Enabled: false, Label: domain.DefaultPublishLabel},
		Watch: domain.WatchConfig{
			Debounce:      50 * time.Millisecond,
			MetricsListen: "127.0.0.1:9999",
		},
		Manifest: domain.ManifestConfig{Output: "/tmp/menu.yaml", Format: "yaml"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("SHARED_TOOLS", "teamTools")
	t.Setenv("DEBOUNCE", "75")
	file := writeTempConfig(t, `
toolsFolder: ${SHARED_TOOLS}
syncRoot: "${HOME_DROPBOX}"
watch:
  debounceMillis: ${DEBOUNCE}
`)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), file, false)
	require.NoError(t, err)
	require.Equal(t, "teamTools", cfg.ToolsFolder)
	require.Equal(t, "", cfg.SyncRoot)
	require.Equal(t, 75*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "teamTools", cfg.Sections[0].Menu)
}

func TestLoader_ValidationErrors(t *testing.T) {
	file := writeTempConfig(t, `
toolsFolder: ""
duplicateFolders: maybe
sections:
  - name: gizmos
    kind: shader
`)

	_, err := NewLoader(zap.NewNop()).Load(context.Background(), file, false)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	require.Contains(t, err.Error(), "toolsFolder is required")
	require.Contains(t, err.Error(), "duplicateFolders must be error or first")
	require.Contains(t, err.Error(), "sections[0]: kind must be gizmo or toolset")
}

func TestLoader_InvalidYAML(t *testing.T) {
	file := writeTempConfig(t, "sections: [")
	_, err := NewLoader(zap.NewNop()).Load(context.Background(), file, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestExpandConfigEnv_ReportsMissing(t *testing.T) {
	t.Setenv("PRESENT", "yes")
	out, missing, err := expandConfigEnv([]byte("a: ${PRESENT}\nb: ${ABSENT_ONE}\nc: '${ABSENT_TWO}'\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"ABSENT_ONE", "ABSENT_TWO"}, missing)
	require.Contains(t, out, "yes")
	require.NotContains(t, out, "${PRESENT}")
}

func TestLoader_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SHELFSYNC_ACCOUNT", "business")
	t.Setenv("SHELFSYNC_TOOLS_FOLDER", "studioTools")
	t.Setenv("SHELFSYNC_INFO_PATHS", "/a/info.json, /b/info.json")
	t.Setenv("SHELFSYNC_WATCH_DEBOUNCE", "1s")

	cfg, err := NewLoader(nil).Parse([]byte("toolsFolder: fileTools\nmanifest:\n  format: yaml\n"))
	require.NoError(t, err)
	require.Equal(t, "business", cfg.AccountType)
	require.Equal(t, "studioTools", cfg.ToolsFolder)
	require.Equal(t, "studioTools", cfg.Sections[0].Menu)
	require.Equal(t, []string{"/a/info.json", "/b/info.json"}, cfg.InfoPaths)
	require.Equal(t, time.Second, cfg.Watch.Debounce)
	require.Equal(t, "yaml", cfg.Manifest.Format)
}

func TestLoader_EnvironmentOverrideValidated(t *testing.T) {
	t.Setenv("SHELFSYNC_DUPLICATE_FOLDERS", "sometimes")
	_, err := NewLoader(nil).Parse(nil)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}
