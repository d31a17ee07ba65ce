package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
)

func TestTypes(t *testing.T) {
	assert.Equal(t, []Type{TypeGlue, TypeHadoop, TypeHive, TypeJdbc, TypeNessie, TypeRest}, Types())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      config.Raw
		wantType Type
	}{
		{
			name:     "nessie",
			raw:      nessieRaw(),
			wantType: TypeNessie,
		},
		{
			name:     "lower case type",
			raw:      config.Raw{KeyCatalogType: "nessie", KeyNessieURI: "http://nessie:19120/api/v1"},
			wantType: TypeNessie,
		},
		{
			name:     "hive",
			raw:      config.Raw{KeyCatalogType: "Hive", KeyHiveThriftURI: "thrift://metastore:9083"},
			wantType: TypeHive,
		},
		{
			name:     "hadoop",
			raw:      config.Raw{KeyCatalogType: "HADOOP"},
			wantType: TypeHadoop,
		},
		{
			name:     "jdbc",
			raw:      config.Raw{KeyCatalogType: "JDBC", KeyJdbcURL: "jdbc:postgresql://db:5432/iceberg"},
			wantType: TypeJdbc,
		},
		{
			name:     "rest",
			raw:      config.Raw{KeyCatalogType: "REST", KeyRestURI: "http://rest:8181"},
			wantType: TypeRest,
		},
		{
			name:     "glue",
			raw:      config.Raw{KeyCatalogType: "GLUE"},
			wantType: TypeGlue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStorage()
			cfg, err := Parse(tt.raw, store)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cfg.Type())
			assert.Same(t, store, cfg.Storage())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  config.Raw
	}{
		{name: "missing type", raw: config.Raw{KeyNessieURI: "http://nessie:19120"}},
		{name: "null type", raw: config.Raw{KeyCatalogType: nil}},
		{name: "unknown type", raw: config.Raw{KeyCatalogType: "POLARIS"}},
		{name: "variant error", raw: config.Raw{KeyCatalogType: "NESSIE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.raw, newFakeStorage())
			require.Error(t, err)
			assert.True(t, cfg == nil, "expected a nil Config interface")
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(TypeNessie, parserFor(ParseNessieConfig)))

	err := r.Register(TypeNessie, parserFor(ParseNessieConfig))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	assert.Equal(t, []Type{TypeNessie}, r.Types())

	_, err = r.Parse(config.Raw{KeyCatalogType: "REST", KeyRestURI: "http://rest:8181"}, newFakeStorage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog type")
}

func TestParse_UsesLoggerConfiguredAfterInit(t *testing.T) {
	// globalRegistry is built during package init, before any logger setup
	path := filepath.Join(t.TempDir(), "catalog.log")
	require.NoError(t, logger.Init(logger.Config{Level: "debug", Encoding: "json", OutputPaths: []string{path}}))
	t.Cleanup(func() {
		_ = logger.Init(logger.Config{Level: "info", Encoding: "json"})
	})

	_, err := Parse(nessieRaw(), newFakeStorage())
	require.NoError(t, err)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "parsing catalog config")
	assert.Contains(t, string(data), `"catalog_type":"NESSIE"`)
}
