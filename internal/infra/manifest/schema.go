package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

const manifestSchema = `{
  "type": "object",
  "required": ["version", "runId", "generatedAt"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "runId": {"type": "string", "minLength": 1},
    "generatedAt": {"type": "string"},
    "syncRoot": {"type": "string"},
    "toolsFolder": {"type": "string"},
    "pluginPaths": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "messages": {"type": "array", "items": {"type": "string"}},
    "menus": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["parent", "name"],
        "properties": {
          "parent": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "icon": {"type": "string"},
          "commands": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["displayPath", "action"],
              "properties": {
                "displayPath": {"type": "string", "minLength": 1},
                "icon": {"type": "string"},
                "action": {
                  "type": "object",
                  "required": ["kind", "identifier"],
                  "properties": {
                    "kind": {"enum": ["create_node", "load_toolset", "publish"]},
                    "identifier": {"type": "string", "minLength": 1},
                    "path": {"type": "string"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

func loadSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(manifestSchema), &schema); err != nil {
			schemaErr = fmt.Errorf("parse manifest schema: %w", err)
			return
		}
		resolvedSchema, schemaErr = schema.Resolve(nil)
	})
	return resolvedSchema, schemaErr
}

// Validate checks a manifest against the manifest schema and version.
func Validate(m Manifest) error {
	if err := CheckVersion(m.Version); err != nil {
		return err
	}
	resolved, err := loadSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}

// ReadAndValidate decodes a manifest in format and validates it.
func ReadAndValidate(r io.Reader, format string) (Manifest, error) {
	m, err := Decode(r, format)
	if err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, Validate(m)
}
