package catalog

import (
	"context"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// KeyGlueID selects the AWS account whose Glue Data Catalog is used
const KeyGlueID = "glue_id"

// PropGlueID is the native Glue catalog id property
const PropGlueID = "glue.id"

const glueCatalogImpl = "org.apache.iceberg.aws.glue.GlueCatalog"

// GlueConfig registers tables in the AWS Glue Data Catalog
type GlueConfig struct {
	base
	glueID config.Optional[string]
}

func init() {
	mustRegister(TypeGlue, parserFor(ParseGlueConfig))
}

// ParseGlueConfig validates a Glue catalog_config object
func ParseGlueConfig(raw config.Raw, store storage.Config, opts ...Option) (*GlueConfig, error) {
	c := &GlueConfig{}

	var err error
	if c.glueID, err = raw.String(KeyGlueID); err != nil {
		return nil, err
	}
	if c.base, err = parseBase(raw, store, defaultDatabase, InitializerFunc(loadGlueCatalog), opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *GlueConfig) Type() Type { return TypeGlue }

func (c *GlueConfig) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)

	conf := baseSessionConfig(catalogName, icebergExtensions)
	conf[prefix+".catalog-impl"] = glueCatalogImpl
	if v, ok := config.NonBlank(c.glueID); ok {
		conf[prefix+".glue.id"] = v
	}

	return c.withStorage(conf, catalogName)
}

func (c *GlueConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeGlue, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer
func (c *GlueConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropWarehouse] = c.storage.WarehouseURI()
	setIfNonBlank(props, PropGlueID, c.glueID)
	return props
}
