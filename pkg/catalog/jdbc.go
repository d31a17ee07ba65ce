package catalog

import (
	"context"
	"strconv"
	"strings"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Raw config keys of a JDBC catalog_config object
const (
	KeyJdbcURL       = "jdbc_url"
	KeyJdbcUsername  = "username"
	KeyJdbcPassword  = "password"
	KeyJdbcSSL       = "ssl"
	KeyCatalogSchema = "catalog_schema"
)

// Native JDBC catalog properties
const (
	PropJdbcUser          = "jdbc.user"
	PropJdbcPassword      = "jdbc.password"
	PropJdbcUseSSL        = "jdbc.useSSL"
	PropJdbcCurrentSchema = "jdbc.currentSchema"
)

const (
	jdbcCatalogImpl   = "org.apache.iceberg.jdbc.JdbcCatalog"
	jdbcDefaultSchema = "public"

	jdbcPostgresPrefix = "jdbc:postgresql://"
	jdbcMySQLPrefix    = "jdbc:mysql://"
)

// JdbcConfig keeps catalog metadata in a relational database
type JdbcConfig struct {
	base
	url      string
	username config.Optional[string]
	password config.Optional[string]
	ssl      bool
	schema   string
}

func init() {
	mustRegister(TypeJdbc, parserFor(ParseJdbcConfig))
}

// ParseJdbcConfig validates a JDBC catalog_config object. Only PostgreSQL
// and MySQL URLs are accepted.
func ParseJdbcConfig(raw config.Raw, store storage.Config, opts ...Option) (*JdbcConfig, error) {
	url, err := raw.RequiredString(KeyJdbcURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(url, jdbcPostgresPrefix) && !strings.HasPrefix(url, jdbcMySQLPrefix) {
		return nil, errors.New(errors.ErrorTypeConfig,
			KeyJdbcURL+" must start with "+jdbcPostgresPrefix+" or "+jdbcMySQLPrefix).
			WithDetail("field", KeyJdbcURL)
	}

	c := &JdbcConfig{url: url}
	if c.username, err = raw.String(KeyJdbcUsername); err != nil {
		return nil, err
	}
	if c.password, err = raw.String(KeyJdbcPassword); err != nil {
		return nil, err
	}
	if c.ssl, err = raw.Bool(KeyJdbcSSL, false); err != nil {
		return nil, err
	}
	if c.schema, err = raw.StringOr(KeyCatalogSchema, jdbcDefaultSchema); err != nil {
		return nil, err
	}
	if c.base, err = parseBase(raw, store, jdbcDefaultSchema, InitializerFunc(loadSQLCatalog), opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *JdbcConfig) Type() Type { return TypeJdbc }

// Schema returns the database schema holding the catalog tables
func (c *JdbcConfig) Schema() string { return c.schema }

func (c *JdbcConfig) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)

	conf := baseSessionConfig(catalogName, icebergExtensions)
	conf[prefix+".catalog-impl"] = jdbcCatalogImpl
	conf[prefix+".uri"] = c.url
	if v, ok := config.NonBlank(c.username); ok {
		conf[prefix+"."+PropJdbcUser] = v
	}
	if v, ok := config.NonBlank(c.password); ok {
		conf[prefix+"."+PropJdbcPassword] = v
	}
	conf[prefix+"."+PropJdbcUseSSL] = strconv.FormatBool(c.ssl)
	conf[prefix+"."+PropJdbcCurrentSchema] = c.schema

	return c.withStorage(conf, catalogName)
}

func (c *JdbcConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeJdbc, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer.
// The default initializer rewrites the JDBC URL into a Go driver DSN.
func (c *JdbcConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropURI] = c.url
	props[PropWarehouse] = c.storage.WarehouseURI()
	setIfNonBlank(props, PropJdbcUser, c.username)
	setIfNonBlank(props, PropJdbcPassword, c.password)
	props[PropJdbcUseSSL] = strconv.FormatBool(c.ssl)
	props[PropJdbcCurrentSchema] = c.schema
	return props
}
