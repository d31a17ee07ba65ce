package storage

import (
	"context"

	iceberg "github.com/apache/iceberg-go"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/metrics"
)

// KeyManagedWarehouseName names a warehouse owned by the catalog server
const KeyManagedWarehouseName = "managed_warehouse_name"

// ManagedConfig delegates data placement to the catalog server; the
// warehouse is a server-side name rather than a storage location.
type ManagedConfig struct {
	warehouse string
}

// ParseManagedConfig validates a MANAGED storage_config object
func ParseManagedConfig(raw config.Raw) (*ManagedConfig, error) {
	name, err := raw.RequiredString(KeyManagedWarehouseName)
	if err != nil {
		return nil, err
	}
	return &ManagedConfig{warehouse: name}, nil
}

func (c *ManagedConfig) Type() Type { return TypeManaged }

func (c *ManagedConfig) WarehouseURI() string { return c.warehouse }

func (c *ManagedConfig) SessionConfig(catalogName string) map[string]string {
	return map[string]string{
		catalogPrefix(catalogName) + ".warehouse": c.warehouse,
	}
}

func (c *ManagedConfig) CatalogProperties() iceberg.Properties {
	return iceberg.Properties{}
}

// Check is a no-op: the catalog server owns the storage credentials
func (c *ManagedConfig) Check(ctx context.Context) error {
	metrics.ObserveStorageCheck(string(TypeManaged), nil)
	return nil
}
