// Package destination parses the full Iceberg destination document, which
// nests a storage_config, a catalog_config and an optional format_config,
// and wires the parsed pieces together.
package destination

import (
	"context"
	"strconv"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/catalog"
	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
	"github.com/ajitpratap0/nebula-catalog/pkg/observability"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Top-level keys of a destination document
const (
	KeyStorageConfig = "storage_config"
	KeyCatalogConfig = "catalog_config"
	KeyFormatConfig  = "format_config"
)

// Iceberg table properties derived from the format config
const (
	PropWriteFormatDefault       = "write.format.default"
	PropWriteTargetFileSizeBytes = "write.target-file-size-bytes"
)

// Config is a parsed destination document
type Config struct {
	storage storage.Config
	catalog catalog.Config
	format  *FormatConfig
}

// Parse validates the storage config first, then the catalog config that
// depends on it, then the format config
func Parse(raw config.Raw, opts ...catalog.Option) (*Config, error) {
	storageRaw, err := raw.Object(KeyStorageConfig)
	if err != nil {
		return nil, err
	}
	store, err := storage.Parse(storageRaw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyStorageConfig)
	}

	catalogRaw, err := raw.Object(KeyCatalogConfig)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Parse(catalogRaw, store, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyCatalogConfig)
	}

	format := DefaultFormatConfig()
	if raw.Has(KeyFormatConfig) {
		formatRaw, err := raw.Object(KeyFormatConfig)
		if err != nil {
			return nil, err
		}
		if format, err = ParseFormatConfig(formatRaw); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+KeyFormatConfig)
		}
	}

	return &Config{storage: store, catalog: cat, format: format}, nil
}

func (c *Config) Storage() storage.Config { return c.storage }
func (c *Config) Catalog() catalog.Config { return c.catalog }
func (c *Config) Format() *FormatConfig   { return c.format }

// SparkConfig returns the Spark session properties registering the catalog
// under catalog.CatalogName
func (c *Config) SparkConfig() map[string]string {
	return c.catalog.SessionConfig(catalog.CatalogName)
}

// TableProperties returns the properties new tables are created with
func (c *Config) TableProperties() map[string]string {
	return map[string]string{
		PropWriteFormatDefault:       string(c.format.Format()),
		PropWriteTargetFileSizeBytes: strconv.FormatInt(c.format.TargetFileSizeBytes(), 10),
	}
}

// BuildCatalog initializes the catalog client
func (c *Config) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.catalog.BuildCatalog(ctx)
}

// Check verifies the destination end to end: storage reachability, catalog
// client initialization, then a namespace listing through the client
func (c *Config) Check(ctx context.Context) (err error) {
	ctx, span := observability.StartSpan(ctx, "destination", "check",
		attribute.String("catalog_type", string(c.catalog.Type())),
		attribute.String("storage_type", string(c.storage.Type())))
	defer func() { observability.EndSpan(span, err) }()

	log := logger.WithContext(ctx).With(
		zap.String("catalog_type", string(c.catalog.Type())),
		zap.String("storage_type", string(c.storage.Type())))

	if err := c.storage.Check(ctx); err != nil {
		return err
	}

	cat, err := c.catalog.BuildCatalog(ctx)
	if err != nil {
		return err
	}

	namespaces, err := cat.ListNamespaces(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to list catalog namespaces")
	}

	log.Info("destination check passed", zap.Int("namespaces", len(namespaces)))
	return nil
}
