package discovery

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitName splits a file name into stem and extension. Names whose only
// dot is the leading one (".gizmo") have no extension.
func SplitName(name string) (string, string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return name, ""
	}
	if strings.TrimLeft(name[:idx], ".") == "" {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// HasExtension reports whether ext is one of exts. Matching is case-sensitive.
func HasExtension(ext string, exts []string) bool {
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if candidate == ext {
			return true
		}
	}
	return false
}

// ValidName reports whether a file name can be registered with the host.
func ValidName(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
