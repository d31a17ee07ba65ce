package catalog

import (
	"context"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// HadoopConfig keeps table metadata directly under the warehouse location.
// There is no Go client for it; BuildCatalog needs WithInitializer.
type HadoopConfig struct {
	base
}

func init() {
	mustRegister(TypeHadoop, parserFor(ParseHadoopConfig))
}

// ParseHadoopConfig validates a Hadoop catalog_config object
func ParseHadoopConfig(raw config.Raw, store storage.Config, opts ...Option) (*HadoopConfig, error) {
	b, err := parseBase(raw, store, defaultDatabase, nil, opts)
	if err != nil {
		return nil, err
	}
	return &HadoopConfig{base: b}, nil
}

func (c *HadoopConfig) Type() Type { return TypeHadoop }

func (c *HadoopConfig) SessionConfig(catalogName string) map[string]string {
	conf := baseSessionConfig(catalogName, icebergExtensions)
	conf[catalogPrefix(catalogName)+".type"] = "hadoop"
	return c.withStorage(conf, catalogName)
}

func (c *HadoopConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeHadoop, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer
func (c *HadoopConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropWarehouse] = c.storage.WarehouseURI()
	return props
}
