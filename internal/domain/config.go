package domain

import (
	"fmt"
	"strings"
	"time"
)

// DuplicatePolicy decides what happens when the tools folder name matches
// more than one directory under the sync root.
type DuplicatePolicy string

const (
	DuplicatePolicyError DuplicatePolicy = "error"
	DuplicatePolicyFirst DuplicatePolicy = "first"
)

// Config is built once at startup and passed to every sync operation.
type Config struct {
	AccountType      string
	ToolsFolder      string
	SyncRoot         string
	InfoPaths        []string
	DuplicateFolders DuplicatePolicy
	ToolExtensions   []string
	IconExtensions   []string
	PluginMenu       string
	HostMenu         string
	MenuIcon         string
	Sections         []Section
	Publish          PublishConfig
	Watch            WatchConfig
	Manifest         ManifestConfig
}

// PublishConfig controls the publish-selection command.
type PublishConfig struct {
	Enabled bool
	Label   string
}

// WatchConfig controls the folder watcher.
type WatchConfig struct {
	Debounce      time.Duration
	MetricsListen string
}

// ManifestConfig controls where and how the menu manifest is written.
type ManifestConfig struct {
	Output string
	Format string
}

// DefaultSections returns the gizmo and toolset sections for a tools folder.
func DefaultSections(toolsFolder, menuIcon string) []Section {
	return []Section{
		{
			Name:     DefaultGizmoSection,
			Kind:     SectionGizmo,
			Toolbar:  DefaultToolbar,
			Menu:     toolsFolder,
			MenuIcon: menuIcon,
		},
		{
			Name:    DefaultToolsetSection,
			Kind:    SectionToolset,
			Toolbar: DefaultToolbar,
			Menu:    DefaultToolsetMenu,
		},
	}
}

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() Config {
	return Config{
		AccountType:      DefaultAccountType,
		ToolsFolder:      DefaultToolsFolder,
		DuplicateFolders: DefaultDuplicateFolders,
		ToolExtensions:   DefaultToolExtensions(),
		IconExtensions:   DefaultIconExtensions(),
		PluginMenu:       DefaultPluginMenu,
		HostMenu:         DefaultHostMenu,
		Sections:         DefaultSections(DefaultToolsFolder, ""),
		Publish: PublishConfig{
			Enabled: true,
			Label:   DefaultPublishLabel,
		},
		Watch: WatchConfig{
			Debounce: DefaultReloadDebounceMilli * time.Millisecond,
		},
		Manifest: ManifestConfig{
			Format: DefaultManifestFormat,
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.AccountType) == "" && strings.TrimSpace(c.SyncRoot) == "" {
		errs = append(errs, "accountType is required when syncRoot is not set")
	}
	if strings.TrimSpace(c.ToolsFolder) == "" {
		errs = append(errs, "toolsFolder is required")
	}
	if strings.ContainsAny(c.ToolsFolder, `/\`) {
		errs = append(errs, "toolsFolder must be a folder name, not a path")
	}
	switch c.DuplicateFolders {
	case DuplicatePolicyError, DuplicatePolicyFirst:
	default:
		errs = append(errs, "duplicateFolders must be error or first")
	}
	errs = append(errs, validateExtensions("toolExtensions", c.ToolExtensions)...)
	errs = append(errs, validateExtensions("iconExtensions", c.IconExtensions)...)
	if len(c.Sections) == 0 {
		errs = append(errs, "at least one section is required")
	}
	seen := make(map[string]struct{}, len(c.Sections))
	for i, section := range c.Sections {
		if strings.TrimSpace(section.Name) == "" {
			errs = append(errs, fmt.Sprintf("sections[%d]: name is required", i))
		} else if _, dup := seen[section.Name]; dup {
			errs = append(errs, fmt.Sprintf("sections[%d]: duplicate name %q", i, section.Name))
		} else {
			seen[section.Name] = struct{}{}
		}
		if section.Kind != SectionGizmo && section.Kind != SectionToolset {
			errs = append(errs, fmt.Sprintf("sections[%d]: kind must be gizmo or toolset", i))
		}
		if strings.TrimSpace(section.Menu) == "" {
			errs = append(errs, fmt.Sprintf("sections[%d]: menu is required", i))
		}
	}
	if c.Publish.Enabled && strings.TrimSpace(c.Publish.Label) == "" {
		errs = append(errs, "publish.label is required when publish is enabled")
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, "watch.debounce must be >= 0")
	}
	switch c.Manifest.Format {
	case "json", "yaml", "toml":
	default:
		errs = append(errs, "manifest.format must be json, yaml or toml")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func validateExtensions(field string, exts []string) []string {
	if len(exts) == 0 {
		return []string{field + " must not be empty"}
	}
	var errs []string
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Sprintf("%s[%d]: %q must start with a dot", field, i, ext))
		}
	}
	return errs
}

// SetToolsFolder changes the tools folder name and renames gizmo menus that
// were named after the previous one.
func (c *Config) SetToolsFolder(name string) {
	previous := c.ToolsFolder
	c.ToolsFolder = name
	for i := range c.Sections {
		if c.Sections[i].Kind == SectionGizmo && c.Sections[i].Menu == previous {
			c.Sections[i].Menu = name
		}
	}
}
