package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()
	assert.Equal(t, "Purpose_code", s.CompositeField)
	assert.Equal(t, "Type_of_finance", s.FinanceField)
	assert.Equal(t, "n/a", s.Placeholder)
	assert.Equal(t, "<>", s.Markers.Exclusion)
	assert.Equal(t, "x", s.Markers.Wildcard)
	assert.Len(t, s.Columns, 4)
	assert.Len(t, s.Amounts.Names(), 5)
	assert.Equal(t, "Bucket", s.RuleColumns.Bucket)
}

func TestLoadSchemaMissingFileFallsBack(t *testing.T) {
	s, err := LoadSchema(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), s)
}

func TestLoadSchemaPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `
placeholder: "-"
composite_field: Purpose
columns:
  - rule_column: Flow
    record_field: Flow_code
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "-", s.Placeholder)
	assert.Equal(t, "Purpose", s.CompositeField)
	require.Len(t, s.Columns, 1)
	assert.Equal(t, "Flow_code", s.Columns[0].RecordField)

	// Untouched sections keep their defaults.
	assert.Equal(t, "Type_of_finance", s.FinanceField)
	assert.Equal(t, "Amounts_extended", s.Amounts.Extended)
}

func TestLoadSchemaInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placeholder: [unclosed"), 0o600))

	_, err := LoadSchema(path)
	require.Error(t, err)
}
