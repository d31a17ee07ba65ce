package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
)

func TestLoad_JSON(t *testing.T) {
	t.Setenv("NESSIE_TOKEN", "secret-token")

	path := filepath.Join(t.TempDir(), "destination.json")
	doc := `{
  "catalog_config": {
    "catalog_type": "Nessie",
    "nessie_server_uri": "http://localhost:19120/api/v2",
    "nessie_server_token": "${NESSIE_TOKEN}"
  },
  "format_config": {"flush_batch_size": 500}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	raw, err := Load(path)
	require.NoError(t, err)

	catalog, err := raw.Object("catalog_config")
	require.NoError(t, err)
	token, err := catalog.RequiredString("nessie_server_token")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	format, err := raw.Object("format_config")
	require.NoError(t, err)
	size, err := format.Int("flush_batch_size", 0)
	require.NoError(t, err)
	assert.Equal(t, 500, size)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "destination.yaml")
	doc := `
catalog_config:
  catalog_type: Rest
  rest_uri: http://localhost:8181
format_config:
  auto_compact: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	raw, err := Load(path)
	require.NoError(t, err)

	catalog, err := raw.Object("catalog_config")
	require.NoError(t, err)
	assert.Equal(t, "Rest", catalog["catalog_type"])

	format, err := raw.Object("format_config")
	require.NoError(t, err)
	compact, err := format.Bool("auto_compact", false)
	require.NoError(t, err)
	assert.True(t, compact)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = ParseJSON([]byte(`[1, 2]`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = ParseJSON([]byte(`null`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("REGION", "eu-west-1")

	assert.Equal(t, `{"r": "eu-west-1"}`, substituteEnvVars(`{"r": "${REGION}"}`))
	assert.Equal(t, `{"r": ""}`, substituteEnvVars(`{"r": "${UNSET_VARIABLE_FOR_TEST}"}`))
	assert.Equal(t, `{"r": "${unterminated"}`, substituteEnvVars(`{"r": "${unterminated"}`))
}
