package catalog

import (
	"context"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Raw config keys of a REST catalog_config object
const (
	KeyRestURI        = "rest_uri"
	KeyRestCredential = "rest_credential"
	KeyRestToken      = "rest_token"
)

// Native REST catalog properties
const (
	PropRestCredential = "credential"
	PropRestToken      = "token"
)

// RestConfig connects to an Iceberg REST catalog service
type RestConfig struct {
	base
	uri        string
	credential config.Optional[string]
	token      config.Optional[string]
}

func init() {
	mustRegister(TypeRest, parserFor(ParseRestConfig))
}

// ParseRestConfig validates a REST catalog_config object
func ParseRestConfig(raw config.Raw, store storage.Config, opts ...Option) (*RestConfig, error) {
	uri, err := raw.RequiredString(KeyRestURI)
	if err != nil {
		return nil, err
	}

	c := &RestConfig{uri: uri}
	if c.credential, err = raw.String(KeyRestCredential); err != nil {
		return nil, err
	}
	if c.token, err = raw.String(KeyRestToken); err != nil {
		return nil, err
	}
	if c.base, err = parseBase(raw, store, defaultDatabase, InitializerFunc(loadCatalog), opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RestConfig) Type() Type { return TypeRest }

func (c *RestConfig) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)

	conf := baseSessionConfig(catalogName, icebergExtensions)
	conf[prefix+".type"] = "rest"
	conf[prefix+".uri"] = c.uri
	if v, ok := config.NonBlank(c.credential); ok {
		conf[prefix+".credential"] = v
	}
	if v, ok := config.NonBlank(c.token); ok {
		conf[prefix+".token"] = v
	}

	return c.withStorage(conf, catalogName)
}

func (c *RestConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeRest, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer
func (c *RestConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropType] = "rest"
	props[PropURI] = c.uri
	props[PropWarehouse] = c.storage.WarehouseURI()
	setIfNonBlank(props, PropRestCredential, c.credential)
	setIfNonBlank(props, PropRestToken, c.token)
	return props
}
