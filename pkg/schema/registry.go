package schema

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Registry holds named schemas built at startup and validates records by
// schema name. Register everything before serving; lookups are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	log     *slog.Logger
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*Registry)

func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		schemas: make(map[string]*Schema),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("schema_registry"))
	return r
}

// Register adds s under its name. Registering a name twice is an error.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Name() == "" {
		return fmt.Errorf("%w: cannot register an unnamed schema", ErrInvalidSchema)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[s.Name()]; ok {
		return fmt.Errorf("%w: schema %q already registered", ErrInvalidSchema, s.Name())
	}
	r.schemas[s.Name()] = s
	r.log.Debug("schema registered",
		logger.Schema(s.Name()),
		logger.Count(len(s.fields)),
		slog.Any("groups", s.Groups()),
	)
	return nil
}

// RegisterAll registers every schema in m, for use with LoadYAML.
func (r *Registry) RegisterAll(m map[string]*Schema) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Register(m[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Get(name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

func (r *Registry) MustGet(name string) *Schema {
	s, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns the registered schema names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Validate(name string, rec validator.Record) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}
	return s.Validate(rec)
}

func (r *Registry) ValidateGroup(name, group string, rec validator.Record) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}
	return s.ValidateGroup(rec, group)
}
