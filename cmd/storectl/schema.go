package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/warren/pkg/types"
)

// manifest is the on-disk shape of a schema manifest file, modeled on the
// teacher's apiVersion/kind/metadata/spec resource envelope (see
// cmd/warren's apply command) but specialized to a list of table
// definitions instead of a single resource.
type manifest struct {
	APIVersion string          `yaml:"apiVersion"`
	Kind       string          `yaml:"kind"`
	Tables     []manifestTable `yaml:"tables"`
}

type manifestTable struct {
	ID     string          `yaml:"id"`
	Fields []manifestField `yaml:"fields"`
}

type manifestField struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Undoable bool   `yaml:"undoable"`
	Default  any    `yaml:"default"`
}

// loadSchemas reads a schema manifest from path and converts it into the
// types.Schema values a Store expects.
func loadSchemas(path string) ([]types.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Kind != "" && m.Kind != "Schema" {
		return nil, fmt.Errorf("unsupported manifest kind: %s", m.Kind)
	}
	return m.toSchemas()
}

func (m manifest) toSchemas() ([]types.Schema, error) {
	schemas := make([]types.Schema, 0, len(m.Tables))
	for _, table := range m.Tables {
		if table.ID == "" {
			return nil, fmt.Errorf("manifest: table with empty id")
		}
		fieldSchemas := make(map[string]types.FieldSchema, len(table.Fields))
		for _, f := range table.Fields {
			kind, err := parseFieldKind(f.Kind)
			if err != nil {
				return nil, fmt.Errorf("table %s, field %s: %w", table.ID, f.Name, err)
			}
			fieldSchemas[f.Name] = types.FieldSchema{
				Kind:     kind,
				Undoable: f.Undoable,
				Default:  f.Default,
			}
		}
		schemas = append(schemas, types.Schema{ID: table.ID, Fields: fieldSchemas})
	}
	return schemas, nil
}

func parseFieldKind(s string) (types.FieldKind, error) {
	switch types.FieldKind(s) {
	case types.FieldKindRegister, types.FieldKindList, types.FieldKindMap, types.FieldKindText:
		return types.FieldKind(s), nil
	default:
		return "", fmt.Errorf("unknown field kind %q", s)
	}
}

// sampleManifest is used by `storectl demo` when no --schema file is given,
// so the demo runs out of the box.
const sampleManifest = `
apiVersion: storectl/v1
kind: Schema
tables:
  - id: documents
    fields:
      - name: title
        kind: register
        undoable: true
        default: "untitled"
      - name: tags
        kind: list
      - name: authors
        kind: map
      - name: body
        kind: text
`

func loadSampleSchemas() ([]types.Schema, error) {
	var m manifest
	if err := yaml.Unmarshal([]byte(sampleManifest), &m); err != nil {
		return nil, fmt.Errorf("parse sample manifest: %w", err)
	}
	return m.toSchemas()
}
