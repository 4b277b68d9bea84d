package domain

import (
	"time"

	"go.uber.org/multierr"
)

// SectionKind selects how files in a section become host commands.
type SectionKind string

const (
	// SectionGizmo registers files as node-creation commands.
	SectionGizmo SectionKind = "gizmo"
	// SectionToolset registers files as toolset loads.
	SectionToolset SectionKind = "toolset"
)

// CommandKind tells the host integration how to run a command.
type CommandKind string

const (
	CommandCreateNode  CommandKind = "create_node"
	CommandLoadToolset CommandKind = "load_toolset"
	CommandPublish     CommandKind = "publish"
)

// Command is the typed action a menu entry triggers in the host.
type Command struct {
	Kind       CommandKind `json:"kind" yaml:"kind" toml:"kind"`
	Identifier string      `json:"identifier" yaml:"identifier" toml:"identifier"`
	Path       string      `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// CatalogEntry is one tool discovered under a section folder.
type CatalogEntry struct {
	DisplayPath string  `json:"displayPath"`
	Identifier  string  `json:"identifier"`
	IconName    string  `json:"iconName,omitempty"`
	Path        string  `json:"path"`
	Ext         string  `json:"ext"`
	Command     Command `json:"command"`
}

// SkipReason classifies why a file was left out of a catalog.
type SkipReason string

const (
	SkipEmptyStem      SkipReason = "empty_stem"
	SkipInvalidName    SkipReason = "invalid_name"
	SkipUnreadableDir  SkipReason = "unreadable_dir"
	SkipDuplicatePath  SkipReason = "duplicate_display_path"
	SkipUnreadableFile SkipReason = "unreadable_file"
)

// SkippedEntry records a file or directory that did not make it into the catalog.
type SkippedEntry struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Err    error      `json:"-"`
}

// Section names a folder under the tools folder and how to register it.
type Section struct {
	Name     string
	Kind     SectionKind
	Toolbar  string
	Menu     string
	MenuIcon string
}

// Catalog is the ordered result of walking one section folder.
type Catalog struct {
	Section     Section
	Root        string
	Entries     []CatalogEntry
	Skipped     []SkippedEntry
	PluginPaths []string
	BuiltAt     time.Time
}

// SkipErr combines the errors of all skipped entries, or returns nil.
func (c Catalog) SkipErr() error {
	var err error
	for _, skipped := range c.Skipped {
		if skipped.Err != nil {
			err = multierr.Append(err, skipped.Err)
		}
	}
	return err
}

// SyncResult summarises one sync run across all sections.
type SyncResult struct {
	RunID       string
	SyncRoot    string
	ToolsFolder string
	Catalogs    []Catalog
	Failures    map[string]error
}

// Entries returns the number of entries registered across all catalogs.
func (r SyncResult) Entries() int {
	total := 0
	for _, catalog := range r.Catalogs {
		total += len(catalog.Entries)
	}
	return total
}

// Skipped returns the number of skipped files across all catalogs.
func (r SyncResult) Skipped() int {
	total := 0
	for _, catalog := range r.Catalogs {
		total += len(catalog.Skipped)
	}
	return total
}
