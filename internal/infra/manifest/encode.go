package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Encode writes the manifest to w in the given format (json, yaml or toml).
func Encode(w io.Writer, m Manifest, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(m)
	default:
		return fmt.Errorf("unknown manifest format %q", format)
	}
}

// Decode reads a manifest previously written by Encode.
func Decode(r io.Reader, format string) (Manifest, error) {
	var m Manifest
	var err error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		err = json.NewDecoder(r).Decode(&m)
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(&m)
	case "toml":
		err = toml.NewDecoder(r).Decode(&m)
	default:
		err = fmt.Errorf("unknown manifest format %q", format)
	}
	return m, err
}

// WriteFile replaces path with the encoded manifest. The file is written
// next to its destination and renamed so readers never see a partial file.
func WriteFile(path string, m Manifest, format string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure manifest dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := Encode(tmp, m, format); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// FormatFromPath guesses a format from a file extension, defaulting to json.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
