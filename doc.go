// Package nebulacatalog configures Apache Iceberg catalogs for Spark based
// destinations.
//
// A destination document names a storage backend (S3 or a server managed
// warehouse) and a catalog (Nessie, REST, Glue, JDBC, Hive or Hadoop). The
// packages under pkg/ validate that document and project it two ways:
//
//   - pkg/catalog renders the Spark session properties that register the
//     catalog, and builds an iceberg-go catalog client from native catalog
//     properties.
//   - pkg/storage contributes warehouse location, S3 file IO settings and a
//     bucket reachability check.
//   - pkg/destination ties both together with the write format settings.
//
// The nebula-catalog command under cmd/ renders the Spark configuration of a
// document and checks connectivity:
//
//	nebula-catalog spark-conf --config destination.json --output properties
//	nebula-catalog check --config destination.json --timeout 30s
package nebulacatalog
