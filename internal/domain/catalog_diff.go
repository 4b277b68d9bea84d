package domain

import (
	"reflect"
	"sort"
)

// CatalogDiff summarizes changes between catalog states. Keys are
// "<section>/<displayPath>".
type CatalogDiff struct {
	AddedEntries       []string
	RemovedEntries     []string
	UpdatedEntries     []string
	PluginPathsChanged bool
	FailuresChanged    bool
}

// IsEmpty reports whether the diff contains any changes.
func (d CatalogDiff) IsEmpty() bool {
	return len(d.AddedEntries) == 0 &&
		len(d.RemovedEntries) == 0 &&
		len(d.UpdatedEntries) == 0 &&
		!d.PluginPathsChanged &&
		!d.FailuresChanged
}

// DiffCatalogStates computes a diff between two catalog states.
func DiffCatalogStates(prev CatalogState, next CatalogState) CatalogDiff {
	diff := CatalogDiff{}

	prevEntries := indexEntries(prev.Result)
	nextEntries := indexEntries(next.Result)

	for key, prevEntry := range prevEntries {
		nextEntry, ok := nextEntries[key]
		if !ok {
			diff.RemovedEntries = append(diff.RemovedEntries, key)
			continue
		}
		if !reflect.DeepEqual(prevEntry, nextEntry) {
			diff.UpdatedEntries = append(diff.UpdatedEntries, key)
		}
	}
	for key := range nextEntries {
		if _, ok := prevEntries[key]; !ok {
			diff.AddedEntries = append(diff.AddedEntries, key)
		}
	}

	diff.PluginPathsChanged = !stringsEqual(pluginPaths(prev.Result), pluginPaths(next.Result))
	diff.FailuresChanged = !stringsEqual(failureKeys(prev.Result), failureKeys(next.Result))

	sort.Strings(diff.AddedEntries)
	sort.Strings(diff.RemovedEntries)
	sort.Strings(diff.UpdatedEntries)

	return diff
}

func indexEntries(result SyncResult) map[string]CatalogEntry {
	out := make(map[string]CatalogEntry)
	for _, catalog := range result.Catalogs {
		for _, entry := range catalog.Entries {
			out[catalog.Section.Name+"/"+entry.DisplayPath] = entry
		}
	}
	return out
}

func pluginPaths(result SyncResult) []string {
	var paths []string
	for _, catalog := range result.Catalogs {
		paths = append(paths, catalog.PluginPaths...)
	}
	return paths
}

func failureKeys(result SyncResult) []string {
	if len(result.Failures) == 0 {
		return nil
	}
	keys := make([]string, 0, len(result.Failures))
	for key, err := range result.Failures {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		keys = append(keys, key+"="+msg)
	}
	sort.Strings(keys)
	return keys
}

func stringsEqual(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
