package manifest

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CheckVersion reports whether a manifest written with version can be read
// by this package.
func CheckVersion(version string) error {
	got, ok := normalizeSemver(version)
	if !ok {
		return fmt.Errorf("invalid manifest version %q", version)
	}
	want, _ := normalizeSemver(SchemaVersion)
	if semver.Major(got) != semver.Major(want) {
		return fmt.Errorf("manifest version %s is not compatible with %s", got, want)
	}
	return nil
}

func normalizeSemver(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if !strings.HasPrefix(value, "v") {
		value = "v" + value
	}
	normalized := semver.Canonical(value)
	if normalized == "" {
		return "", false
	}
	return normalized, true
}
