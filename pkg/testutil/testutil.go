// Package testutil provides test doubles and helpers shared by the catalog
// and destination tests
package testutil

import (
	"context"
	"maps"
	"testing"
	"time"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// StubStorage is a storage.Config with fixed outputs
type StubStorage struct {
	Warehouse string
	Session   map[string]string
	Props     iceberg.Properties
	CheckErr  error
	Checks    int
}

// NewStubStorage returns an S3-like stub registered for the "warehouse"
// catalog name
func NewStubStorage() *StubStorage {
	return &StubStorage{
		Warehouse: "s3://warehouse/iceberg",
		Session: map[string]string{
			"spark.sql.catalog.warehouse.warehouse": "s3://warehouse/iceberg",
			"spark.sql.catalog.warehouse.io-impl":   "org.apache.iceberg.aws.s3.S3FileIO",
		},
		Props: iceberg.Properties{
			"io-impl":   "org.apache.iceberg.aws.s3.S3FileIO",
			"s3.region": "eu-west-1",
		},
	}
}

func (s *StubStorage) Type() storage.Type   { return storage.TypeS3 }
func (s *StubStorage) WarehouseURI() string { return s.Warehouse }

// SessionConfig returns a copy of Session whatever the catalog name
func (s *StubStorage) SessionConfig(string) map[string]string {
	return maps.Clone(s.Session)
}

// CatalogProperties returns Props itself so tests can detect mutation
func (s *StubStorage) CatalogProperties() iceberg.Properties { return s.Props }

func (s *StubStorage) Check(context.Context) error {
	s.Checks++
	return s.CheckErr
}

// StubCatalog is a catalog client that only answers ListNamespaces; any
// other method panics
type StubCatalog struct {
	icebergcatalog.Catalog
	Namespaces []table.Identifier
	ListErr    error
}

func (c *StubCatalog) ListNamespaces(_ context.Context, _ table.Identifier) ([]table.Identifier, error) {
	return c.Namespaces, c.ListErr
}
