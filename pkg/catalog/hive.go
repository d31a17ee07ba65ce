package catalog

import (
	"context"
	"strings"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// KeyHiveThriftURI is the Hive metastore endpoint
const KeyHiveThriftURI = "hive_thrift_uri"

// HiveConfig registers tables in a Hive metastore. iceberg-go has no Hive
// client, so BuildCatalog needs an initializer from WithInitializer.
type HiveConfig struct {
	base
	thriftURI string
}

func init() {
	mustRegister(TypeHive, parserFor(ParseHiveConfig))
}

// ParseHiveConfig validates a Hive catalog_config object
func ParseHiveConfig(raw config.Raw, store storage.Config, opts ...Option) (*HiveConfig, error) {
	uri, err := raw.RequiredString(KeyHiveThriftURI)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(uri, "thrift://") {
		return nil, errors.New(errors.ErrorTypeConfig, KeyHiveThriftURI+" must start with thrift://").
			WithDetail("field", KeyHiveThriftURI)
	}

	c := &HiveConfig{thriftURI: uri}
	if c.base, err = parseBase(raw, store, defaultDatabase, nil, opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *HiveConfig) Type() Type { return TypeHive }

func (c *HiveConfig) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)

	conf := baseSessionConfig(catalogName, icebergExtensions)
	conf[prefix+".type"] = "hive"
	conf[prefix+".uri"] = c.thriftURI

	return c.withStorage(conf, catalogName)
}

func (c *HiveConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeHive, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer
func (c *HiveConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropURI] = c.thriftURI
	props[PropWarehouse] = c.storage.WarehouseURI()
	return props
}
