package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"shelfsync/internal/domain"
)

// envOverrides are read from the process environment after the file.
// Unset or empty variables leave the file value alone.
type envOverrides struct {
	AccountType      string        `env:"SHELFSYNC_ACCOUNT"`
	ToolsFolder      string        `env:"SHELFSYNC_TOOLS_FOLDER"`
	SyncRoot         string        `env:"SHELFSYNC_SYNC_ROOT"`
	InfoPaths        []string      `env:"SHELFSYNC_INFO_PATHS" envSeparator:","`
	DuplicateFolders string        `env:"SHELFSYNC_DUPLICATE_FOLDERS"`
	ManifestOutput   string        `env:"SHELFSYNC_MANIFEST_OUTPUT"`
	ManifestFormat   string        `env:"SHELFSYNC_MANIFEST_FORMAT"`
	MetricsListen    string        `env:"SHELFSYNC_METRICS_LISTEN"`
	Debounce         time.Duration `env:"SHELFSYNC_WATCH_DEBOUNCE"`
}

func applyEnv(cfg *domain.Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if v := strings.TrimSpace(ov.AccountType); v != "" {
		cfg.AccountType = v
	}
	if v := strings.TrimSpace(ov.ToolsFolder); v != "" {
		cfg.SetToolsFolder(v)
	}
	if v := strings.TrimSpace(ov.SyncRoot); v != "" {
		cfg.SyncRoot = v
	}
	if paths := trimAll(ov.InfoPaths); len(paths) > 0 {
		cfg.InfoPaths = paths
	}
	if v := strings.TrimSpace(ov.DuplicateFolders); v != "" {
		cfg.DuplicateFolders = domain.DuplicatePolicy(strings.ToLower(v))
	}
	if v := strings.TrimSpace(ov.ManifestOutput); v != "" {
		cfg.Manifest.Output = v
	}
	if v := strings.TrimSpace(ov.ManifestFormat); v != "" {
		cfg.Manifest.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(ov.MetricsListen); v != "" {
		cfg.Watch.MetricsListen = v
	}
	if ov.Debounce > 0 {
		cfg.Watch.Debounce = ov.Debounce
	}
	return nil
}
