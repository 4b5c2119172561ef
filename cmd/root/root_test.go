package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "crs-report", Cmd.Use)
	assert.NotEmpty(t, Cmd.Short)
	assert.NotEmpty(t, Cmd.Long)
}

func TestInitRegistersPersistentFlags(t *testing.T) {
	Init()

	for _, name := range []string{"records", "output", "schema"} {
		flag := Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "missing persistent flag %q", name)
	}
}

func TestLoadSchemaDefaults(t *testing.T) {
	SharedFlags.Schema = ""
	schema, err := LoadSchema()
	require.NoError(t, err)
	assert.Equal(t, "Purpose_code", schema.CompositeField)
	assert.Equal(t, "n/a", schema.Placeholder)
}
