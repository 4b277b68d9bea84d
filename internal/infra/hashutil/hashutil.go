package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

type sectionDigest struct {
	Section     string                `json:"section"`
	Root        string                `json:"root"`
	Entries     []domain.CatalogEntry `json:"entries"`
	PluginPaths []string              `json:"pluginPaths"`
}

type resultDigest struct {
	SyncRoot    string            `json:"syncRoot"`
	ToolsFolder string            `json:"toolsFolder"`
	Sections    []sectionDigest   `json:"sections"`
	Failures    map[string]string `json:"failures,omitempty"`
}

// CatalogETag returns an ETag for the registrations a sync result produces.
// Run ids and build times are excluded so identical trees hash identically.
func CatalogETag(logger *zap.Logger, result domain.SyncResult) string {
	return hashWithLogger(logger, "catalog", func() (string, error) {
		digest := resultDigest{
			SyncRoot:    result.SyncRoot,
			ToolsFolder: result.ToolsFolder,
		}
		for _, catalog := range result.Catalogs {
			digest.Sections = append(digest.Sections, sectionDigest{
				Section:     catalog.Section.Name,
				Root:        catalog.Root,
				Entries:     catalog.Entries,
				PluginPaths: catalog.PluginPaths,
			})
		}
		sort.SliceStable(digest.Sections, func(i, j int) bool {
			return digest.Sections[i].Section < digest.Sections[j].Section
		})
		if len(result.Failures) > 0 {
			digest.Failures = make(map[string]string, len(result.Failures))
			for name, err := range result.Failures {
				if err != nil {
					digest.Failures[name] = err.Error()
				}
			}
		}
		return hashJSON(digest)
	})
}

func hashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func hashWithLogger(logger *zap.Logger, label string, fn func() (string, error)) string {
	etag, err := fn()
	if err != nil {
		if logger != nil {
			logger.Warn(fmt.Sprintf("%s hash failed", label), zap.Error(err))
		}
		return ""
	}
	return etag
}
