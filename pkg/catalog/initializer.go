package catalog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/catalog/glue"
	"github.com/apache/iceberg-go/catalog/rest"
	_ "github.com/apache/iceberg-go/catalog/sql"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Native properties of the iceberg-go SQL catalog
const (
	PropSQLDriver  = "sql.driver"
	PropSQLDialect = "sql.dialect"
)

var nessieAPIVersionSuffix = regexp.MustCompile(`/api/v[0-9]+/?$`)

// loadCatalog hands props to the iceberg-go catalog registry unchanged
func loadCatalog(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	return icebergcatalog.Load(ctx, name, props)
}

// loadNessieCatalog talks to Nessie through its Iceberg REST endpoint
func loadNessieCatalog(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	restProps, err := nessieRESTProperties(props)
	if err != nil {
		return nil, err
	}

	cat, err := icebergcatalog.Load(ctx, name, restProps)
	if err != nil {
		return nil, fmt.Errorf("failed to load Nessie catalog: %w", err)
	}
	if _, ok := cat.(*rest.Catalog); !ok {
		return nil, fmt.Errorf("expected *rest.Catalog for Nessie, got %T", cat)
	}
	return cat, nil
}

// nessieRESTProperties rewrites native Nessie properties into REST catalog
// properties rooted at <server>/iceberg[/<ref>]
func nessieRESTProperties(props iceberg.Properties) (iceberg.Properties, error) {
	uri := props[PropURI]
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		uri = "http://" + uri
	}
	uri = nessieAPIVersionSuffix.ReplaceAllString(strings.TrimRight(uri, "/"), "")

	elems := []string{"iceberg"}
	if ref := strings.TrimSpace(props[PropNessieRef]); ref != "" {
		elems = append(elems, ref)
	}
	endpoint, err := url.JoinPath(uri, elems...)
	if err != nil {
		return nil, fmt.Errorf("failed to build Nessie catalog URI: %w", err)
	}

	out := make(iceberg.Properties, len(props))
	for k, v := range props {
		switch k {
		case PropNessieRef, PropNessieAuthType, PropNessieAuthToken, PropNessieAPIVersion:
			continue
		}
		out[k] = v
	}
	out[PropType] = "rest"
	out[PropURI] = endpoint
	if token := props[PropNessieAuthToken]; token != "" {
		out[PropRestToken] = token
	}
	return out, nil
}

// loadGlueCatalog builds an AWS config from the storage properties
func loadGlueCatalog(ctx context.Context, _ string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := props[storage.PropS3Region]; region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if key := props[storage.PropS3AccessKeyID]; key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, props[storage.PropS3SecretAccessKey], "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return glue.NewCatalog(glue.WithAwsConfig(cfg)), nil
}

// loadSQLCatalog opens the iceberg-go SQL catalog on the database a JDBC
// URL points at
func loadSQLCatalog(ctx context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	sqlProps, err := sqlCatalogProperties(props)
	if err != nil {
		return nil, err
	}
	return icebergcatalog.Load(ctx, name, sqlProps)
}

// sqlCatalogProperties replaces the JDBC URL and jdbc.* properties with a
// Go driver DSN plus the driver and dialect names
func sqlCatalogProperties(props iceberg.Properties) (iceberg.Properties, error) {
	jdbcURL := props[PropURI]
	u, err := url.Parse(strings.TrimPrefix(jdbcURL, "jdbc:"))
	if err != nil {
		return nil, fmt.Errorf("invalid JDBC URL: %w", err)
	}

	out := make(iceberg.Properties, len(props))
	for k, v := range props {
		if !strings.HasPrefix(k, "jdbc.") {
			out[k] = v
		}
	}
	out[PropType] = "sql"

	user := props[PropJdbcUser]
	password := props[PropJdbcPassword]
	useSSL := props[PropJdbcUseSSL] == "true"

	switch u.Scheme {
	case "postgresql":
		dsn := postgresDSN(u, user, password, useSSL, props[PropJdbcCurrentSchema])
		if _, err := pgx.ParseConfig(dsn); err != nil {
			return nil, fmt.Errorf("invalid PostgreSQL connection string: %w", err)
		}
		out[PropURI] = dsn
		out[PropSQLDriver] = "pgx"
		out[PropSQLDialect] = "postgres"
	case "mysql":
		out[PropURI] = mysqlDSN(u, user, password, useSSL)
		out[PropSQLDriver] = "mysql"
		out[PropSQLDialect] = "mysql"
	default:
		return nil, fmt.Errorf("unsupported JDBC URL scheme %q", u.Scheme)
	}
	return out, nil
}

func postgresDSN(u *url.URL, user, password string, useSSL bool, schema string) string {
	q := u.Query()
	switch {
	case useSSL:
		q.Set("sslmode", "require")
	case !q.Has("sslmode"):
		q.Set("sslmode", "disable")
	}
	if schema != "" {
		q.Set("search_path", schema)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		Host:     u.Host,
		Path:     u.Path,
		RawQuery: q.Encode(),
	}
	if user != "" {
		dsn.User = url.UserPassword(user, password)
	}
	return dsn.String()
}

func mysqlDSN(u *url.URL, user, password string, useSSL bool) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if useSSL {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}
