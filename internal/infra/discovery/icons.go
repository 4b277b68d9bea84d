package discovery

import "io/fs"

// IconIndex maps file stems to icon file names for the given directory
// listing. When two icons share a stem, the later entry in listing order wins.
func IconIndex(entries []fs.DirEntry, iconExts []string) map[string]string {
	icons := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ext := SplitName(entry.Name())
		if HasExtension(ext, iconExts) {
			icons[stem] = entry.Name()
		}
	}
	return icons
}
