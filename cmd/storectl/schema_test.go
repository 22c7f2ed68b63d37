package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/warren/pkg/types"
)

func TestLoadSampleSchemas(t *testing.T) {
	schemas, err := loadSampleSchemas()
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "documents", schemas[0].ID)
	assert.Equal(t, types.FieldKindRegister, schemas[0].Fields["title"].Kind)
}

func TestLoadSchemasFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	content := `
apiVersion: storectl/v1
kind: Schema
tables:
  - id: notes
    fields:
      - name: body
        kind: text
      - name: tags
        kind: list
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	schemas, err := loadSchemas(path)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "notes", schemas[0].ID)
	assert.Equal(t, types.FieldKindList, schemas[0].Fields["tags"].Kind)
}

func TestLoadSchemasRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	content := `
tables:
  - id: bad
    fields:
      - name: x
        kind: nonsense
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := loadSchemas(path)
	assert.Error(t, err)
}

func TestLoadSchemasRejectsWrongKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	content := `
kind: Service
tables: []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := loadSchemas(path)
	assert.Error(t, err)
}
