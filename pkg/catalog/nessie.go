package catalog

import (
	"context"
	"fmt"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Raw config keys of a Nessie catalog_config object
const (
	KeyNessieURI                = "nessie_server_uri"
	KeyNessieRef                = "nessie_server_ref"
	KeyNessieAuthenticationType = "nessie_server_authentication_type"
	KeyNessieToken              = "nessie_server_token"
	KeyNessieAPIVersion         = "nessie_client_api_version"
)

// Native Nessie catalog properties
const (
	PropNessieRef        = "ref"
	PropNessieAuthType   = KeyNessieAuthenticationType
	PropNessieAuthToken  = "nessie.authentication.token"
	PropNessieAPIVersion = "client-api-version"
)

const (
	nessieCatalogImpl = "org.apache.iceberg.nessie.NessieCatalog"
	nessieExtensions  = icebergExtensions + ",org.projectnessie.spark.extensions.NessieSparkSessionExtensions"
	redacted          = "***REDACTED***"
)

// AuthenticationType is how the Nessie client authenticates
type AuthenticationType string

const (
	AuthenticationNone   AuthenticationType = "NONE"
	AuthenticationBearer AuthenticationType = "BEARER"
)

// ParseAuthenticationType accepts exactly NONE or BEARER
func ParseAuthenticationType(s string) (AuthenticationType, error) {
	switch t := AuthenticationType(s); t {
	case AuthenticationNone, AuthenticationBearer:
		return t, nil
	default:
		return "", errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("unsupported authentication type %q: [NONE, BEARER] are the only supported authentication types", s)).
			WithDetail("field", KeyNessieAuthenticationType)
	}
}

// NessieConfig connects to a Nessie server, a versioned catalog whose
// branches and tags are addressed by ref.
//
// The token is accepted whatever the authentication type and is passed to
// the client whenever it is non-blank.
type NessieConfig struct {
	base
	uri                string
	ref                config.Optional[string]
	authenticationType AuthenticationType
	apiVersion         config.Optional[string]
	token              config.Optional[string]
}

func init() {
	mustRegister(TypeNessie, parserFor(ParseNessieConfig))
}

// ParseNessieConfig validates a Nessie catalog_config object
func ParseNessieConfig(raw config.Raw, store storage.Config, opts ...Option) (*NessieConfig, error) {
	uri, err := raw.RequiredString(KeyNessieURI)
	if err != nil {
		return nil, err
	}

	c := &NessieConfig{uri: uri}

	if c.ref, err = raw.String(KeyNessieRef); err != nil {
		return nil, err
	}
	if c.apiVersion, err = raw.String(KeyNessieAPIVersion); err != nil {
		return nil, err
	}
	if c.token, err = raw.String(KeyNessieToken); err != nil {
		return nil, err
	}

	authType, err := raw.StringOr(KeyNessieAuthenticationType, string(AuthenticationNone))
	if err != nil {
		return nil, err
	}
	if c.authenticationType, err = ParseAuthenticationType(authType); err != nil {
		return nil, err
	}

	if c.base, err = parseBase(raw, store, defaultDatabase, InitializerFunc(loadNessieCatalog), opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Type implements Config
func (c *NessieConfig) Type() Type { return TypeNessie }

// URI returns the Nessie server endpoint
func (c *NessieConfig) URI() string { return c.uri }

// Ref returns the branch or tag, absent when the server default is used
func (c *NessieConfig) Ref() config.Optional[string] { return c.ref }

// AuthenticationType returns the client authentication type
func (c *NessieConfig) AuthenticationType() AuthenticationType { return c.authenticationType }

// APIVersion returns the client API version passed through to the client
func (c *NessieConfig) APIVersion() config.Optional[string] { return c.apiVersion }

// Token returns the bearer token
func (c *NessieConfig) Token() config.Optional[string] { return c.token }

// SessionConfig implements Config. The ref key is always written; an absent
// ref is written as the empty string.
func (c *NessieConfig) SessionConfig(catalogName string) map[string]string {
	prefix := catalogPrefix(catalogName)

	conf := baseSessionConfig(catalogName, nessieExtensions)
	conf[prefix+".catalog-impl"] = nessieCatalogImpl
	conf[prefix+".uri"] = c.uri
	conf[prefix+".ref"] = c.ref.OrElse("")
	conf[prefix+".authentication.type"] = string(c.authenticationType)

	return c.withStorage(conf, catalogName)
}

// BuildCatalog implements Config
func (c *NessieConfig) BuildCatalog(ctx context.Context) (icebergcatalog.Catalog, error) {
	return c.initialize(ctx, TypeNessie, c.CatalogProperties())
}

// CatalogProperties returns the native properties handed to the initializer
func (c *NessieConfig) CatalogProperties() iceberg.Properties {
	props := c.storageProperties()
	props[PropURI] = c.uri
	props[PropWarehouse] = c.storage.WarehouseURI()
	setIfNonBlank(props, PropNessieRef, c.ref)
	setIfNonBlank(props, PropNessieAuthType, config.Some(string(c.authenticationType)))
	setIfNonBlank(props, PropNessieAPIVersion, c.apiVersion)
	setIfNonBlank(props, PropNessieAuthToken, c.token)
	return props
}

// Equal reports whether both configs hold the same values and share the
// same storage config
func (c *NessieConfig) Equal(other *NessieConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.uri == other.uri &&
		c.ref == other.ref &&
		c.authenticationType == other.authenticationType &&
		c.apiVersion == other.apiVersion &&
		c.token == other.token &&
		c.database == other.database &&
		c.storage == other.storage
}

// String renders the config with the token redacted
func (c *NessieConfig) String() string {
	token := "<none>"
	if c.token.Present() {
		token = redacted
	}
	return fmt.Sprintf("NessieConfig{uri=%s, ref=%s, authenticationType=%s, apiVersion=%s, token=%s, database=%s, storage=%s}",
		c.uri, optionalString(c.ref), c.authenticationType, optionalString(c.apiVersion), token, c.database, storageString(c.storage))
}

func optionalString(o config.Optional[string]) string {
	if v, ok := o.Get(); ok {
		return v
	}
	return "<none>"
}

func storageString(s storage.Config) string {
	if s == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s(%s)", s.Type(), s.WarehouseURI())
}
