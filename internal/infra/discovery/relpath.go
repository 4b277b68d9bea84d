package discovery

import (
	"path/filepath"
	"strings"

	"shelfsync/internal/domain"
)

// RelativeDisplayPath returns the part of path below the first component
// named ancestor, joined with "/", with the file extension dropped from
// the last component. A file directly inside ancestor yields its bare stem.
func RelativeDisplayPath(path, ancestor string) (string, error) {
	parts := splitPath(path)
	start := -1
	for i, part := range parts {
		if part == ancestor {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(parts) {
		return "", &domain.AncestorNotInPathError{Ancestor: ancestor, Path: path}
	}

	rel := append([]string(nil), parts[start:]...)
	last := len(rel) - 1
	rel[last], _ = SplitName(rel[last])
	return strings.Join(rel, "/"), nil
}

func splitPath(path string) []string {
	slashed := filepath.ToSlash(path)
	raw := strings.Split(slashed, "/")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
