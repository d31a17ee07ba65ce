// Package storage describes where an Iceberg warehouse keeps its data files
// and projects that location into Spark session settings and catalog client
// properties. A storage config is parsed once per job and shared read-only
// with the catalog config that references it.
package storage

import (
	"context"
	"fmt"
	"strings"

	iceberg "github.com/apache/iceberg-go"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
)

// Type discriminates storage backends
type Type string

const (
	TypeS3      Type = "S3"
	TypeManaged Type = "MANAGED"
)

// KeyStorageType is the discriminator key of a storage_config object
const KeyStorageType = "storage_type"

// Config is a validated storage configuration
type Config interface {
	// Type returns the storage backend
	Type() Type

	// WarehouseURI returns the root location under which tables are written
	WarehouseURI() string

	// SessionConfig returns the Spark session entries for catalogName
	SessionConfig(catalogName string) map[string]string

	// CatalogProperties returns the catalog client properties contributed by
	// the storage backend. Callers may not rely on it being a fresh map.
	CatalogProperties() iceberg.Properties

	// Check verifies the storage backend is reachable with the configured credentials
	Check(ctx context.Context) error
}

// Parse builds the storage config selected by storage_type
func Parse(raw config.Raw) (Config, error) {
	storageType, err := raw.RequiredString(KeyStorageType)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch Type(strings.ToUpper(strings.TrimSpace(storageType))) {
	case TypeS3:
		cfg, err = asConfig(ParseS3Config(raw))
	case TypeManaged:
		cfg, err = asConfig(ParseManagedConfig(raw))
	default:
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("unsupported storage type: %s", storageType)).
			WithDetail("field", KeyStorageType)
	}
	return cfg, err
}

// asConfig keeps a failed parse from becoming a non-nil Config
func asConfig[T Config](c T, err error) (Config, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

func catalogPrefix(catalogName string) string {
	return "spark.sql.catalog." + catalogName
}
