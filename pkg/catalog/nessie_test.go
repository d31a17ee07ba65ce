package catalog

import (
	"context"
	stderrors "errors"
	"testing"

	iceberg "github.com/apache/iceberg-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/testutil"
)

func nessieRaw() config.Raw {
	return config.Raw{
		KeyCatalogType:              "NESSIE",
		KeyNessieURI:                "https://n.example/api",
		KeyNessieRef:                "main",
		KeyNessieAuthenticationType: "BEARER",
		KeyNessieToken:              "secret-token",
	}
}

func TestParseNessieConfig(t *testing.T) {
	cfg, err := ParseNessieConfig(nessieRaw(), newFakeStorage())
	require.NoError(t, err)

	assert.Equal(t, TypeNessie, cfg.Type())
	assert.Equal(t, "https://n.example/api", cfg.URI())
	assert.Equal(t, config.Some("main"), cfg.Ref())
	assert.Equal(t, AuthenticationBearer, cfg.AuthenticationType())
	assert.Equal(t, config.Some("secret-token"), cfg.Token())
	assert.False(t, cfg.APIVersion().Present())
	assert.Equal(t, "default", cfg.DefaultDatabase())
}

func TestParseNessieConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   config.Raw
		field string
	}{
		{
			name:  "missing uri",
			raw:   config.Raw{KeyNessieRef: "main"},
			field: KeyNessieURI,
		},
		{
			name:  "null uri",
			raw:   config.Raw{KeyNessieURI: nil},
			field: KeyNessieURI,
		},
		{
			name:  "unsupported authentication type",
			raw:   config.Raw{KeyNessieURI: "http://nessie:19120/api/v1", KeyNessieAuthenticationType: "OAUTH2"},
			field: KeyNessieAuthenticationType,
		},
		{
			name:  "authentication type is case sensitive",
			raw:   config.Raw{KeyNessieURI: "http://nessie:19120/api/v1", KeyNessieAuthenticationType: "bearer"},
			field: KeyNessieAuthenticationType,
		},
		{
			name:  "object ref",
			raw:   config.Raw{KeyNessieURI: "http://nessie:19120/api/v1", KeyNessieRef: map[string]interface{}{"name": "main"}},
			field: KeyNessieRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseNessieConfig(tt.raw, newFakeStorage())
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

			field, ok := errors.Detail(err, "field")
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestParseNessieConfig_Defaults(t *testing.T) {
	cfg, err := ParseNessieConfig(config.Raw{
		KeyNessieURI:                "http://nessie:19120/api/v1",
		KeyNessieAuthenticationType: nil,
		KeyNessieRef:                nil,
	}, newFakeStorage())
	require.NoError(t, err)

	assert.Equal(t, AuthenticationNone, cfg.AuthenticationType())
	assert.False(t, cfg.Ref().Present())
	assert.False(t, cfg.Token().Present())
}

func TestParseNessieConfig_NilStorage(t *testing.T) {
	cfg, err := ParseNessieConfig(nessieRaw(), nil)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNessieConfig_SessionConfig(t *testing.T) {
	cfg, err := ParseNessieConfig(nessieRaw(), newFakeStorage())
	require.NoError(t, err)

	conf := cfg.SessionConfig("warehouse")

	assert.Equal(t, "https://n.example/api", conf["spark.sql.catalog.warehouse.uri"])
	assert.Equal(t, "main", conf["spark.sql.catalog.warehouse.ref"])
	assert.Equal(t, "BEARER", conf["spark.sql.catalog.warehouse.authentication.type"])
	assert.Equal(t, "warehouse", conf["spark.sql.defaultCatalog"])
	assert.Equal(t, "300000", conf["spark.network.timeout"])
	assert.Equal(t, "org.apache.iceberg.spark.SparkCatalog", conf["spark.sql.catalog.warehouse"])
	assert.Equal(t, "org.apache.iceberg.nessie.NessieCatalog", conf["spark.sql.catalog.warehouse.catalog-impl"])
	assert.Equal(t,
		"org.apache.iceberg.spark.extensions.IcebergSparkSessionExtensions,org.projectnessie.spark.extensions.NessieSparkSessionExtensions",
		conf["spark.sql.extensions"])
	assert.Equal(t, "-Dpackaging.type=jar -Djava.io.tmpdir=/tmp", conf["spark.driver.extraJavaOptions"])

	// storage entries are merged in
	assert.Equal(t, "s3://warehouse/iceberg", conf["spark.sql.catalog.warehouse.warehouse"])
	assert.Equal(t, "org.apache.iceberg.aws.s3.S3FileIO", conf["spark.sql.catalog.warehouse.io-impl"])

	// the token never reaches the session config
	for _, v := range conf {
		assert.NotEqual(t, "secret-token", v)
	}
}

func TestNessieConfig_SessionConfigAbsentRef(t *testing.T) {
	cfg, err := ParseNessieConfig(config.Raw{KeyNessieURI: "http://nessie:19120/api/v1"}, newFakeStorage())
	require.NoError(t, err)

	conf := cfg.SessionConfig(CatalogName)
	ref, ok := conf["spark.sql.catalog.iceberg.ref"]
	assert.True(t, ok)
	assert.Empty(t, ref)
	assert.Equal(t, "NONE", conf["spark.sql.catalog.iceberg.authentication.type"])
}

func TestNessieConfig_SessionConfigIdempotent(t *testing.T) {
	cfg, err := ParseNessieConfig(nessieRaw(), newFakeStorage())
	require.NoError(t, err)

	assert.Equal(t, cfg.SessionConfig("warehouse"), cfg.SessionConfig("warehouse"))
}

func TestNessieConfig_SessionConfigStorageMerge(t *testing.T) {
	t.Run("storage wins on collision", func(t *testing.T) {
		store := newFakeStorage()
		store.Session["spark.sql.catalog.warehouse.uri"] = "http://override"

		cfg, err := ParseNessieConfig(nessieRaw(), store)
		require.NoError(t, err)

		assert.Equal(t, "http://override", cfg.SessionConfig("warehouse")["spark.sql.catalog.warehouse.uri"])
	})

	t.Run("empty storage map is a no-op", func(t *testing.T) {
		store := newFakeStorage()
		store.Session = map[string]string{}

		cfg, err := ParseNessieConfig(nessieRaw(), store)
		require.NoError(t, err)

		conf := cfg.SessionConfig("warehouse")
		assert.Len(t, conf, 9)
	})
}

func TestNessieConfig_CatalogProperties(t *testing.T) {
	tests := []struct {
		name    string
		raw     config.Raw
		want    map[string]string
		missing []string
	}{
		{
			name: "all optional fields",
			raw: config.Raw{
				KeyNessieURI:                "http://nessie:19120/api/v2",
				KeyNessieRef:                "dev",
				KeyNessieAuthenticationType: "BEARER",
				KeyNessieToken:              "tok",
				KeyNessieAPIVersion:         2,
			},
			want: map[string]string{
				PropURI:              "http://nessie:19120/api/v2",
				PropWarehouse:        "s3://warehouse/iceberg",
				PropNessieRef:        "dev",
				nessieAuthTypeProp:   "BEARER",
				PropNessieAuthToken:  "tok",
				PropNessieAPIVersion: "2",
			},
		},
		{
			name:    "absent ref",
			raw:     config.Raw{KeyNessieURI: "http://nessie:19120/api/v1"},
			want:    map[string]string{nessieAuthTypeProp: "NONE"},
			missing: []string{PropNessieRef, PropNessieAuthToken, PropNessieAPIVersion},
		},
		{
			name:    "blank ref",
			raw:     config.Raw{KeyNessieURI: "http://nessie:19120/api/v1", KeyNessieRef: "  "},
			missing: []string{PropNessieRef},
		},
		{
			name: "token passes through with NONE",
			raw: config.Raw{
				KeyNessieURI:                "http://nessie:19120/api/v1",
				KeyNessieAuthenticationType: "NONE",
				KeyNessieToken:              "tok",
			},
			want: map[string]string{nessieAuthTypeProp: "NONE", PropNessieAuthToken: "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseNessieConfig(tt.raw, newFakeStorage())
			require.NoError(t, err)

			props := cfg.CatalogProperties()
			for k, v := range tt.want {
				assert.Equal(t, v, props[k], k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, props, k)
			}
			assert.Equal(t, "eu-west-1", props["s3.region"])
		})
	}
}

func TestNessieConfig_BuildCatalog(t *testing.T) {
	store := newFakeStorage()
	initializer := &recordingInitializer{cat: &testutil.StubCatalog{}}

	cfg, err := ParseNessieConfig(nessieRaw(), store,
		WithInitializer(initializer), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	cat, err := cfg.BuildCatalog(context.Background())
	require.NoError(t, err)
	assert.Same(t, initializer.cat, cat)

	assert.Equal(t, 1, initializer.calls)
	assert.Equal(t, CatalogName, initializer.name)
	assert.Equal(t, "https://n.example/api", initializer.props[PropURI])
	assert.Equal(t, "s3://warehouse/iceberg", initializer.props[PropWarehouse])
	assert.Equal(t, "main", initializer.props[PropNessieRef])
	assert.Equal(t, "secret-token", initializer.props[PropNessieAuthToken])
	assert.Equal(t, "BEARER", initializer.props["nessie_server_authentication_type"])
	assert.NotContains(t, initializer.props, "nessie.authentication.type")

	// the storage collaborator's map is left untouched
	assert.Equal(t, iceberg.Properties{
		"io-impl":   "org.apache.iceberg.aws.s3.S3FileIO",
		"s3.region": "eu-west-1",
	}, store.Props)
}

func TestNessieConfig_BuildCatalogError(t *testing.T) {
	cause := stderrors.New("connection refused")
	initializer := &recordingInitializer{err: cause}

	cfg, err := ParseNessieConfig(nessieRaw(), newFakeStorage(),
		WithInitializer(initializer), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	cat, err := cfg.BuildCatalog(context.Background())
	require.Error(t, err)
	assert.Nil(t, cat)
	assert.Equal(t, 1, initializer.calls)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCatalog))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to initialize nessie catalog")
}

func TestNessieConfig_EqualAndString(t *testing.T) {
	store := newFakeStorage()

	a, err := ParseNessieConfig(nessieRaw(), store)
	require.NoError(t, err)
	b, err := ParseNessieConfig(nessieRaw(), store)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	other := nessieRaw()
	other[KeyNessieRef] = "dev"
	c, err := ParseNessieConfig(other, store)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	d, err := ParseNessieConfig(nessieRaw(), newFakeStorage())
	require.NoError(t, err)
	assert.False(t, a.Equal(d))

	s := a.String()
	assert.Contains(t, s, "https://n.example/api")
	assert.Contains(t, s, "ref=main")
	assert.Contains(t, s, "***REDACTED***")
	assert.NotContains(t, s, "secret-token")
}

func TestParseAuthenticationType(t *testing.T) {
	for _, s := range []string{"NONE", "BEARER"} {
		got, err := ParseAuthenticationType(s)
		require.NoError(t, err)
		assert.Equal(t, AuthenticationType(s), got)
	}

	_, err := ParseAuthenticationType("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported authentication type")
}
