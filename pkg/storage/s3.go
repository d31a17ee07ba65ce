package storage

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	iceberg "github.com/apache/iceberg-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
	"github.com/ajitpratap0/nebula-catalog/pkg/metrics"
)

// Raw config keys of an S3 storage_config object
const (
	KeyS3WarehouseURI    = "s3_warehouse_uri"
	KeyS3BucketRegion    = "s3_bucket_region"
	KeyS3Endpoint        = "s3_endpoint"
	KeyS3AccessKeyID     = "access_key_id"
	KeyS3SecretAccessKey = "secret_access_key"
	KeyS3PathStyleAccess = "s3_path_style_access"
)

// Catalog client property names
const (
	PropIOImpl            = "io-impl"
	PropS3Region          = "s3.region"
	PropS3Endpoint        = "s3.endpoint"
	PropS3AccessKeyID     = "s3.access-key-id"
	PropS3SecretAccessKey = "s3.secret-access-key"
	PropS3PathStyleAccess = "s3.path-style-access"
	PropClientRegion      = "client.region"
)

const (
	s3FileIOImpl    = "org.apache.iceberg.aws.s3.S3FileIO"
	s3AFileSystem   = "org.apache.hadoop.fs.s3a.S3AFileSystem"
	defaultS3Region = "us-east-1"
	hadoopS3APrefix = "spark.hadoop.fs.s3a."
	s3Scheme        = "s3://"
	s3aScheme       = "s3a://"
)

// bucketHeader is the subset of the S3 client used by Check
type bucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Config stores warehouse data in an S3-compatible object store
type S3Config struct {
	warehouseURI    string
	bucket          string
	region          string
	endpoint        string
	accessKeyID     string
	secretAccessKey string
	pathStyleAccess bool
	props           iceberg.Properties

	newClient func(ctx context.Context, c *S3Config) (bucketHeader, error)
}

// ParseS3Config validates an S3 storage_config object
func ParseS3Config(raw config.Raw) (*S3Config, error) {
	warehouse, err := raw.RequiredString(KeyS3WarehouseURI)
	if err != nil {
		return nil, err
	}
	warehouse = strings.TrimRight(strings.TrimSpace(warehouse), "/")

	var rest string
	switch {
	case strings.HasPrefix(warehouse, s3Scheme):
		rest = strings.TrimPrefix(warehouse, s3Scheme)
	case strings.HasPrefix(warehouse, s3aScheme):
		rest = strings.TrimPrefix(warehouse, s3aScheme)
	default:
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("%s must start with s3:// or s3a://", KeyS3WarehouseURI)).
			WithDetail("field", KeyS3WarehouseURI)
	}
	bucket, _, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("%s must name a bucket", KeyS3WarehouseURI)).
			WithDetail("field", KeyS3WarehouseURI)
	}

	c := &S3Config{
		warehouseURI: warehouse,
		bucket:       bucket,
		newClient:    newS3Client,
	}
	if c.region, err = raw.StringOr(KeyS3BucketRegion, defaultS3Region); err != nil {
		return nil, err
	}
	if c.endpoint, err = raw.StringOr(KeyS3Endpoint, ""); err != nil {
		return nil, err
	}
	if c.accessKeyID, err = raw.StringOr(KeyS3AccessKeyID, ""); err != nil {
		return nil, err
	}
	if c.secretAccessKey, err = raw.StringOr(KeyS3SecretAccessKey, ""); err != nil {
		return nil, err
	}
	if c.pathStyleAccess, err = raw.Bool(KeyS3PathStyleAccess, true); err != nil {
		return nil, err
	}
	if (c.accessKeyID == "") != (c.secretAccessKey == "") {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("%s and %s must be set together", KeyS3AccessKeyID, KeyS3SecretAccessKey)).
			WithDetail("field", KeyS3AccessKeyID)
	}

	c.props = c.buildCatalogProperties()
	return c, nil
}

// Type implements Config
func (c *S3Config) Type() Type { return TypeS3 }

// WarehouseURI implements Config
func (c *S3Config) WarehouseURI() string { return c.warehouseURI }

// Bucket returns the bucket parsed from the warehouse URI
func (c *S3Config) Bucket() string { return c.bucket }

// Region returns the bucket region
func (c *S3Config) Region() string { return c.region }

// SessionConfig implements Config
func (c *S3Config) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)
	pathStyle := strconv.FormatBool(c.pathStyleAccess)
	sslEnabled := strconv.FormatBool(c.endpoint == "" || strings.HasPrefix(c.endpoint, "https://"))

	conf := map[string]string{
		prefix + ".io-impl":              s3FileIOImpl,
		prefix + ".warehouse":            c.warehouseURI,
		prefix + ".s3.path-style-access": pathStyle,
		prefix + ".client.region":        c.region,

		hadoopS3APrefix + "impl":                   s3AFileSystem,
		hadoopS3APrefix + "path.style.access":      pathStyle,
		hadoopS3APrefix + "endpoint.region":        c.region,
		hadoopS3APrefix + "connection.ssl.enabled": sslEnabled,
	}
	if c.endpoint != "" {
		conf[prefix+".s3.endpoint"] = c.endpoint
		conf[hadoopS3APrefix+"endpoint"] = c.endpoint
	}
	if c.accessKeyID != "" {
		conf[prefix+".s3.access-key-id"] = c.accessKeyID
		conf[prefix+".s3.secret-access-key"] = c.secretAccessKey
		conf[hadoopS3APrefix+"access.key"] = c.accessKeyID
		conf[hadoopS3APrefix+"secret.key"] = c.secretAccessKey
	}
	return conf
}

// CatalogProperties implements Config. Callers get their own copy.
func (c *S3Config) CatalogProperties() iceberg.Properties {
	return maps.Clone(c.props)
}

func (c *S3Config) buildCatalogProperties() iceberg.Properties {
	props := iceberg.Properties{
		PropIOImpl:            s3FileIOImpl,
		PropS3Region:          c.region,
		PropClientRegion:      c.region,
		PropS3PathStyleAccess: strconv.FormatBool(c.pathStyleAccess),
	}
	if c.endpoint != "" {
		props[PropS3Endpoint] = c.endpoint
	}
	if c.accessKeyID != "" {
		props[PropS3AccessKeyID] = c.accessKeyID
		props[PropS3SecretAccessKey] = c.secretAccessKey
	}
	return props
}

// Check issues a HeadBucket request against the warehouse bucket
func (c *S3Config) Check(ctx context.Context) error {
	log := logger.WithContext(ctx).With(
		zap.String("component", "s3_storage"),
		zap.String("bucket", c.bucket))

	err := c.headBucket(ctx)
	metrics.ObserveStorageCheck(string(TypeS3), err)
	if err != nil {
		log.Error("S3 bucket check failed", zap.Error(err))
		return err
	}

	log.Info("S3 bucket is reachable")
	return nil
}

func (c *S3Config) headBucket(ctx context.Context) error {
	client, err := c.newClient(ctx, c)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to create S3 client").
			WithDetail("region", c.region)
	}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to access S3 bucket").
			WithDetail("bucket", c.bucket)
	}
	return nil
}

func newS3Client(ctx context.Context, c *S3Config) (bucketHeader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.region)}
	if c.accessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.accessKeyID, c.secretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
		o.UsePathStyle = c.pathStyleAccess
	}), nil
}
