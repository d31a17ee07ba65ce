package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
	"github.com/ajitpratap0/nebula-catalog/pkg/storage"
)

// Parser builds a catalog config from its raw catalog_config object
type Parser func(raw config.Raw, store storage.Config, opts ...Option) (Config, error)

// Registry maps catalog types to their parsers. Registration happens during
// package init, before the global logger is configured, so the registry
// resolves its logger on each Parse call.
type Registry struct {
	parsers map[Type]Parser
	mu      sync.RWMutex
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[Type]Parser),
	}
}

// Register adds the parser for a catalog type
func (r *Registry) Register(t Type, parser Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[t]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("catalog type %s already registered", t))
	}

	r.parsers[t] = parser
	return nil
}

// Parse reads catalog_type and hands raw to the matching parser
func (r *Registry) Parse(raw config.Raw, store storage.Config, opts ...Option) (Config, error) {
	name, err := raw.RequiredString(KeyCatalogType)
	if err != nil {
		return nil, err
	}
	t := Type(strings.ToUpper(strings.TrimSpace(name)))

	r.mu.RLock()
	parser, exists := r.parsers[t]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("unsupported catalog type %q, expected one of %v", name, r.Types())).
			WithDetail("field", KeyCatalogType)
	}

	r.log().Debug("parsing catalog config", zap.String("catalog_type", string(t)))
	return parser(raw, store, opts...)
}

func (r *Registry) log() *zap.Logger {
	return logger.Get().With(zap.String("component", "catalog_registry"))
}

// Types returns the registered catalog types in sorted order
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.parsers))
	for t := range r.parsers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Parse builds a catalog config with the global registry
func Parse(raw config.Raw, store storage.Config, opts ...Option) (Config, error) {
	return globalRegistry.Parse(raw, store, opts...)
}

// Types lists the catalog types known to the global registry
func Types() []Type {
	return globalRegistry.Types()
}

func mustRegister(t Type, parser Parser) {
	if err := globalRegistry.Register(t, parser); err != nil {
		panic(err)
	}
}

// parserFor lifts a typed parser into a Parser. The explicit nil check keeps
// a failed parse from surfacing as a non-nil Config holding a nil pointer.
func parserFor[T Config](parse func(config.Raw, storage.Config, ...Option) (T, error)) Parser {
	return func(raw config.Raw, store storage.Config, opts ...Option) (Config, error) {
		c, err := parse(raw, store, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
