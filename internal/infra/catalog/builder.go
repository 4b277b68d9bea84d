// Package catalog walks a section folder of the shared tools tree and turns
// the tool files it finds into ordered catalog entries.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/infra/discovery"
	"shelfsync/internal/infra/telemetry"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	ToolExtensions []string
	IconExtensions []string
	Logger         *zap.Logger
	Metrics        domain.Metrics
}

// Builder produces catalogs. A Builder keeps no state between builds.
type Builder struct {
	toolExts []string
	iconExts []string
	logger   *zap.Logger
	metrics  domain.Metrics
}

func NewBuilder(opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	toolExts := opts.ToolExtensions
	if len(toolExts) == 0 {
		toolExts = domain.DefaultToolExtensions()
	}
	iconExts := opts.IconExtensions
	if len(iconExts) == 0 {
		iconExts = domain.DefaultIconExtensions()
	}
	return &Builder{
		toolExts: toolExts,
		iconExts: iconExts,
		logger:   logger.Named("catalog"),
		metrics:  metrics,
	}
}

// Build walks <toolsFolder>/<section.Name>.
//
// Directories are walked depth-first: the files of a directory are emitted
// in lexicographic order before any of its sub-directories, which are then
// visited in lexicographic order. Problems with single files are recorded
// in Catalog.Skipped and do not stop the walk.
func (b *Builder) Build(ctx context.Context, toolsFolder string, section domain.Section) (domain.Catalog, error) {
	root := filepath.Join(toolsFolder, section.Name)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return domain.Catalog{}, &domain.FolderNotFoundError{Path: root, Name: section.Name}
	}

	w := &walker{
		builder: b,
		section: section,
		root:    root,
		parent:  filepath.Dir(root),
		logger:  b.logger.With(telemetry.SectionField(section.Name)),
		catalog: domain.Catalog{
			Section: section,
			Root:    root,
			BuiltAt: time.Now(),
		},
		byDisplayPath: make(map[string]int),
	}
	if err := w.walk(ctx, root); err != nil {
		return domain.Catalog{}, err
	}
	return w.catalog, nil
}

type walker struct {
	builder       *Builder
	section       domain.Section
	root          string
	parent        string
	logger        *zap.Logger
	catalog       domain.Catalog
	byDisplayPath map[string]int
}

func (w *walker) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		w.skip(dir, domain.SkipUnreadableDir, err)
		return nil
	}
	w.catalog.PluginPaths = append(w.catalog.PluginPaths, dir)

	icons := discovery.IconIndex(entries, w.builder.iconExts)
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}
		if err := w.addFile(dir, entry, icons); err != nil {
			return err
		}
	}
	for _, sub := range subdirs {
		if err := w.walk(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) addFile(dir string, entry fs.DirEntry, icons map[string]string) error {
	name := entry.Name()
	stem, ext := discovery.SplitName(name)
	if !discovery.HasExtension(ext, w.builder.toolExts) {
		return nil
	}
	path := filepath.Join(dir, name)
	if !discovery.ValidName(name) {
		w.skip(path, domain.SkipInvalidName, fmt.Errorf("invalid file name %q", name))
		return nil
	}
	if strings.TrimSpace(stem) == "" {
		w.skip(path, domain.SkipEmptyStem, fmt.Errorf("empty name before extension in %q", name))
		return nil
	}

	rel, err := filepath.Rel(w.parent, path)
	if err != nil {
		w.skip(path, domain.SkipUnreadableFile, err)
		return nil
	}
	displayPath, err := discovery.RelativeDisplayPath(rel, w.section.Name)
	if err != nil {
		return err
	}

	entryOut := domain.CatalogEntry{
		DisplayPath: displayPath,
		Identifier:  identifierFor(w.section.Kind, stem, ext),
		IconName:    icons[stem],
		Path:        path,
		Ext:         ext,
	}
	entryOut.Command = commandFor(w.section.Kind, entryOut)

	if idx, exists := w.byDisplayPath[displayPath]; exists {
		previous := w.catalog.Entries[idx]
		w.skip(previous.Path, domain.SkipDuplicatePath,
			fmt.Errorf("display path %q replaced by %s", displayPath, path))
		w.catalog.Entries[idx] = entryOut
		return nil
	}
	w.byDisplayPath[displayPath] = len(w.catalog.Entries)
	w.catalog.Entries = append(w.catalog.Entries, entryOut)
	return nil
}

func (w *walker) skip(path string, reason domain.SkipReason, err error) {
	w.logger.Warn("catalog entry skipped",
		zap.String("path", path),
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	w.builder.metrics.ObserveSkippedEntry(w.section.Name, reason)
	w.catalog.Skipped = append(w.catalog.Skipped, domain.SkippedEntry{
		Path:   path,
		Reason: reason,
		Err:    err,
	})
}

// identifierFor returns the name the host creates the tool by. Gizmos are
// created by stem; scripts and toolsets keep their extension.
func identifierFor(kind domain.SectionKind, stem, ext string) string {
	if kind == domain.SectionGizmo && ext == ".gizmo" {
		return stem
	}
	return stem + ext
}

func commandFor(kind domain.SectionKind, entry domain.CatalogEntry) domain.Command {
	cmdKind := domain.CommandCreateNode
	if kind == domain.SectionToolset {
		cmdKind = domain.CommandLoadToolset
	}
	return domain.Command{
		Kind:       cmdKind,
		Identifier: entry.Identifier,
		Path:       entry.Path,
	}
}
