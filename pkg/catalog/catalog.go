// Package catalog turns a validated catalog_config object into the two shapes
// a destination job needs: Spark session properties that register the
// catalog with the query engine, and a catalog client initialized from
// native catalog properties.
//
// Each catalog variant (Hive, Hadoop, JDBC, REST, Glue, Nessie) is parsed by
// a factory keyed on the catalog_type discriminator:
//
//	store, _ := storage.Parse(rawStorage)
//	cfg, err := catalog.Parse(rawCatalog, store)
//	if err != nil {
//	    return err // ErrorTypeConfig
//	}
//	conf := cfg.SessionConfig(catalog.CatalogName)
//	cat, err := cfg.BuildCatalog(ctx) // ErrorTypeCatalog on failure
//
// Configs are immutable once parsed and perform no I/O other than the single
// client initialization in BuildCatalog, which is never retried.
package catalog

import (
	"context"
	"fmt"
	"maps"
	"strings"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
	"github.com/ajitpratap0/nebula-catalog/pkg/metrics"
	"github.com/ajitpratap0/nebula-catalog/pkg/observability"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// CatalogName is the logical name the catalog is registered under
const CatalogName = "iceberg"

// Type discriminates catalog variants
type Type string

const (
	TypeHive   Type = "HIVE"
	TypeHadoop Type = "HADOOP"
	TypeJdbc   Type = "JDBC"
	TypeRest   Type = "REST"
	TypeGlue   Type = "GLUE"
	TypeNessie Type = "NESSIE"
)

// Raw config keys shared by all catalog variants
const (
	KeyCatalogType = "catalog_type"
	KeyDatabase    = "database"
)

// Native catalog client property names shared by all variants
const (
	PropType      = "type"
	PropURI       = "uri"
	PropWarehouse = "warehouse"
)

const (
	defaultDatabase = "default"

	sparkCatalogImpl  = "org.apache.iceberg.spark.SparkCatalog"
	icebergExtensions = "org.apache.iceberg.spark.extensions.IcebergSparkSessionExtensions"
	networkTimeoutMs  = "300000"
	driverJavaOptions = "-Dpackaging.type=jar -Djava.io.tmpdir=/tmp"
)

// Config is a validated catalog configuration
type Config interface {
	// Type returns the catalog variant
	Type() Type

	// Storage returns the storage config the catalog writes through
	Storage() storage.Config

	// DefaultDatabase returns the namespace used when a stream names none
	DefaultDatabase() string

	// SessionConfig returns the Spark session properties that register the
	// catalog under catalogName, with the storage entries applied last
	SessionConfig(catalogName string) map[string]string

	// BuildCatalog initializes the catalog client exactly once
	BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error)
}

// Initializer creates an initialized catalog client from native properties
type Initializer interface {
	Initialize(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error)
}

// InitializerFunc adapts a function to the Initializer interface
type InitializerFunc func(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error)

// Initialize implements Initializer
func (f InitializerFunc) Initialize(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	return f(ctx, name, props)
}

type options struct {
	initializer Initializer
	logger      *zap.Logger
}

// Option customizes how a catalog config is built
type Option func(*options)

// WithInitializer replaces the catalog client initializer of the variant
func WithInitializer(init Initializer) Option {
	return func(o *options) {
		o.initializer = init
	}
}

// WithLogger sets the logger used during catalog initialization
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(defaultInit Initializer, opts []Option) options {
	o := options{initializer: defaultInit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	o.logger = o.logger.With(zap.String("component", "iceberg_catalog"))
	return o
}

// base holds the fields every catalog variant shares
type base struct {
	storage  storage.Config
	database string
	opts     options
}

func parseBase(raw config.Raw, store storage.Config, defaultDB string, defaultInit Initializer, opts []Option) (base, error) {
	if store == nil {
		return base{}, errors.New(errors.ErrorTypeConfig, "storage config is required")
	}
	db, err := raw.StringOr(KeyDatabase, defaultDB)
	if err != nil {
		return base{}, err
	}
	return base{
		storage:  store,
		database: db,
		opts:     newOptions(defaultInit, opts),
	}, nil
}

// Storage implements Config
func (b *base) Storage() storage.Config { return b.storage }

// DefaultDatabase implements Config
func (b *base) DefaultDatabase() string { return b.database }

// storageProperties copies the storage properties so later writes never
// reach the storage config's own map
func (b *base) storageProperties() iceberg.Properties {
	props := make(iceberg.Properties, len(b.storage.CatalogProperties())+8)
	maps.Copy(props, b.storage.CatalogProperties())
	return props
}

// initialize runs the configured initializer once and classifies failures
func (b *base) initialize(ctx context.Context, t Type, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	typeName := strings.ToLower(string(t))
	log := b.opts.logger.With(
		zap.String("catalog_type", typeName),
		zap.String("catalog_name", CatalogName))

	if b.opts.initializer == nil {
		return nil, errors.Newf(errors.ErrorTypeCapability,
			"%s catalog has no Go client; supply one with WithInitializer", typeName).
			WithDetail("catalog_type", typeName)
	}

	log.Debug("initializing catalog client", zap.Any("properties", SanitizeProperties(props)))

	ctx, span := observability.StartSpan(ctx, "catalog", "initialize",
		attribute.String("catalog_type", typeName),
		attribute.String("catalog_name", CatalogName))
	timer := metrics.NewTimer()
	cat, err := b.opts.initializer.Initialize(ctx, CatalogName, props)
	metrics.ObserveCatalogInitialization(typeName, timer.Elapsed(), err)
	observability.EndSpan(span, err)
	if err != nil {
		log.Error("catalog client initialization failed", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrorTypeCatalog,
			fmt.Sprintf("failed to initialize %s catalog", typeName)).
			WithDetail("catalog", CatalogName)
	}

	log.Info("catalog client initialized", zap.String("warehouse", props[PropWarehouse]))
	return cat, nil
}

// baseSessionConfig returns the Spark entries shared by every variant
func baseSessionConfig(catalogName, extensions string) map[string]string {
	prefix := catalogPrefix(catalogName)
	return map[string]string{
		"spark.network.timeout":         networkTimeoutMs,
		"spark.sql.defaultCatalog":      catalogName,
		"spark.sql.extensions":          extensions,
		prefix:                          sparkCatalogImpl,
		"spark.driver.extraJavaOptions": driverJavaOptions,
	}
}

// withStorage applies the storage entries last so they win on collision
func (b *base) withStorage(conf map[string]string, catalogName string) map[string]string {
	maps.Copy(conf, b.storage.SessionConfig(catalogName))
	return conf
}

func catalogPrefix(catalogName string) string {
	return "spark.sql.catalog." + catalogName
}

func setIfNonBlank(props iceberg.Properties, key string, value config.Optional[string]) {
	if v, ok := config.NonBlank(value); ok {
		props[key] = v
	}
}
