// Package config loads the shelfsync configuration file.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("accountType", domain.DefaultAccountType)
	v.SetDefault("toolsFolder", domain.DefaultToolsFolder)
	v.SetDefault("duplicateFolders", string(domain.DefaultDuplicateFolders))
	v.SetDefault("toolExtensions", domain.DefaultToolExtensions())
	v.SetDefault("iconExtensions", domain.DefaultIconExtensions())
	v.SetDefault("pluginMenu", domain.DefaultPluginMenu)
	v.SetDefault("hostMenu", domain.DefaultHostMenu)
	v.SetDefault("publish.enabled", true)
	v.SetDefault("publish.label", domain.DefaultPublishLabel)
	v.SetDefault("watch.debounceMillis", domain.DefaultReloadDebounceMilli)
	v.SetDefault("manifest.format", domain.DefaultManifestFormat)
}

type rawConfig struct {
	AccountType      string            `mapstructure:"accountType"`
	ToolsFolder      string            `mapstructure:"toolsFolder"`
	SyncRoot         string            `mapstructure:"syncRoot"`
	InfoPaths        []string          `mapstructure:"infoPaths"`
	DuplicateFolders string            `mapstructure:"duplicateFolders"`
	ToolExtensions   []string          `mapstructure:"toolExtensions"`
	IconExtensions   []string          `mapstructure:"iconExtensions"`
	PluginMenu       string            `mapstructure:"pluginMenu"`
	HostMenu         string            `mapstructure:"hostMenu"`
	MenuIcon         string            `mapstructure:"menuIcon"`
	Sections         []rawSection      `mapstructure:"sections"`
	Publish          rawPublishConfig  `mapstructure:"publish"`
	Watch            rawWatchConfig    `mapstructure:"watch"`
	Manifest         rawManifestConfig `mapstructure:"manifest"`
}

type rawSection struct {
	Name    string `mapstructure:"name"`
	Kind    string `mapstructure:"kind"`
	Toolbar string `mapstructure:"toolbar"`
	Menu    string `mapstructure:"menu"`
	Icon    string `mapstructure:"icon"`
}

type rawPublishConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Label   string `mapstructure:"label"`
}

type rawWatchConfig struct {
	DebounceMillis int    `mapstructure:"debounceMillis"`
	MetricsListen  string `mapstructure:"metricsListen"`
}

type rawManifestConfig struct {
	Output string `mapstructure:"output"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration at path. An empty path, or a path that does
// not exist when optional is true, yields the defaults.
func (l *Loader) Load(ctx context.Context, path string, optional bool) (domain.Config, error) {
	var data []byte
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = raw
		case optional && errors.Is(err, fs.ErrNotExist):
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
		default:
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	cfg, err := l.Parse(data)
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, ctx.Err()
}

// Parse decodes YAML configuration bytes, expanding ${ENV} references,
// then applies SHELFSYNC_* environment overrides.
func (l *Loader) Parse(data []byte) (domain.Config, error) {
	v := newConfigViper()
	if len(bytes.TrimSpace(data)) > 0 {
		expanded, missing, err := expandConfigEnv(data)
		if err != nil {
			return domain.Config{}, err
		}
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in config", zap.Strings("missing", missing))
		}
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return domain.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := normalizeConfig(raw)
	if err := applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func normalizeConfig(raw rawConfig) domain.Config {
	toolsFolder := strings.TrimSpace(raw.ToolsFolder)
	menuIcon := strings.TrimSpace(raw.MenuIcon)

	sections := make([]domain.Section, 0, len(raw.Sections))
	for _, section := range raw.Sections {
		sections = append(sections, normalizeSection(section, toolsFolder, menuIcon))
	}
	if len(raw.Sections) == 0 {
		sections = domain.DefaultSections(toolsFolder, menuIcon)
	}

	return domain.Config{
		AccountType:      strings.TrimSpace(raw.AccountType),
		ToolsFolder:      toolsFolder,
		SyncRoot:         strings.TrimSpace(raw.SyncRoot),
		InfoPaths:        trimAll(raw.InfoPaths),
		DuplicateFolders: domain.DuplicatePolicy(strings.ToLower(strings.TrimSpace(raw.DuplicateFolders))),
		ToolExtensions:   trimAll(raw.ToolExtensions),
		IconExtensions:   trimAll(raw.IconExtensions),
		PluginMenu:       strings.TrimSpace(raw.PluginMenu),
		HostMenu:         strings.TrimSpace(raw.HostMenu),
		MenuIcon:         menuIcon,
		Sections:         sections,
		Publish: domain.PublishConfig{
			Enabled: raw.Publish.Enabled,
			Label:   strings.TrimSpace(raw.Publish.Label),
		},
		Watch: domain.WatchConfig{
			Debounce:      time.Duration(raw.Watch.DebounceMillis) * time.Millisecond,
			MetricsListen: strings.TrimSpace(raw.Watch.MetricsListen),
		},
		Manifest: domain.ManifestConfig{
			Output: strings.TrimSpace(raw.Manifest.Output),
			Format: strings.ToLower(strings.TrimSpace(raw.Manifest.Format)),
		},
	}
}

func normalizeSection(raw rawSection, toolsFolder, menuIcon string) domain.Section {
	kind := domain.SectionKind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if kind == "" {
		kind = domain.SectionGizmo
	}
	toolbar := strings.TrimSpace(raw.Toolbar)
	if toolbar == "" {
		toolbar = domain.DefaultToolbar
	}
	menu := strings.TrimSpace(raw.Menu)
	icon := strings.TrimSpace(raw.Icon)
	if menu == "" {
		switch kind {
		case domain.SectionGizmo:
			menu = toolsFolder
			if icon == "" {
				icon = menuIcon
			}
		case domain.SectionToolset:
			menu = domain.DefaultToolsetMenu
		}
	}
	return domain.Section{
		Name:     strings.TrimSpace(raw.Name),
		Kind:     kind,
		Toolbar:  toolbar,
		Menu:     menu,
		MenuIcon: icon,
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
