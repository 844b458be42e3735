package schemabuilder

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"go.appointy.com/graysql/gerrors"
)

// OnInit is the extension entry invoked when a schema is constructed.
const OnInit = "onInit"

// Extension is a bundle of functions installed with Use.
//
// The entry named OnInit is a listener, either func(Options) or
// func(Options) error, called with the options of every schema created
// afterwards. Every other entry must be a function and becomes a method of all
// schemas created afterwards, callable through Schema.Call. If its first
// parameter is a *Schema, the schema the method is called on is passed there.
//
//   schemabuilder.Use(schemabuilder.Extension{
//     schemabuilder.OnInit: func(o schemabuilder.Options) { o["tracing"] = true },
//     "typeCount": func(s *schemabuilder.Schema) int { return len(s.Types()) },
//   })
type Extension map[string]interface{}

type listener func(Options) error

// Registry holds installed extensions. Extensions are only ever added; a
// schema sees the extensions installed before it was created.
type Registry struct {
	mu        sync.RWMutex
	listeners []listener
	methods   map[string]reflect.Value

	logger *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used by the registry and its schemas.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns a registry without extensions.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		methods: make(map[string]reflect.Value),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process wide registry used by Use and NewSchema.
func Default() *Registry {
	return defaultRegistry
}

// Use installs ext on the default registry.
func Use(ext Extension) (*Registry, error) {
	return defaultRegistry.Use(ext)
}

// NewSchema creates a schema from the default registry.
func NewSchema(options Options) (*Schema, error) {
	return defaultRegistry.NewSchema(options)
}

var optionsType = reflect.TypeOf(Options(nil))

// Use installs ext. Either every entry of ext is installed or none is. An
// empty extension installs nothing.
func (r *Registry) Use(ext Extension) (*Registry, error) {
	if ext == nil {
		return r, gerrors.New(gerrors.Configuration, "extension must map names to functions")
	}
	if len(ext) == 0 {
		return r, nil
	}

	names := make([]string, 0, len(ext))
	for name := range ext {
		names = append(names, name)
	}
	sort.Strings(names)

	var ln listener
	methods := make(map[string]reflect.Value, len(ext))
	for _, name := range names {
		entry := ext[name]
		if name == "" {
			return r, gerrors.New(gerrors.Configuration, "extension entries must be named")
		}
		if name == OnInit {
			l, err := toListener(entry)
			if err != nil {
				return r, err
			}
			ln = l
			continue
		}

		v := reflect.ValueOf(entry)
		if entry == nil || v.Kind() != reflect.Func || v.IsNil() {
			return r, gerrors.New(gerrors.Configuration, "extension entry %q is not a function", name)
		}
		methods[name] = v
	}

	r.mu.Lock()
	if ln != nil {
		r.listeners = append(r.listeners, ln)
	}
	for name, v := range methods {
		r.methods[name] = v
	}
	r.mu.Unlock()

	r.logger.Debug("extension installed", zap.Strings("entries", names))
	return r, nil
}

func toListener(entry interface{}) (listener, error) {
	switch fn := entry.(type) {
	case func(Options):
		if fn != nil {
			return func(o Options) error {
				fn(o)
				return nil
			}, nil
		}
	case func(Options) error:
		if fn != nil {
			return fn, nil
		}
	case func(map[string]interface{}):
		if fn != nil {
			return func(o Options) error {
				fn(o)
				return nil
			}, nil
		}
	}
	return nil, gerrors.New(gerrors.Configuration, "extension entry %q must be a func(%s) or func(%s) error", OnInit, optionsType, optionsType)
}

// Methods returns the names of the installed extension methods, sorted.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Listeners returns the number of installed onInit listeners.
func (r *Registry) Listeners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// snapshot copies the installed extensions.
func (r *Registry) snapshot() ([]listener, map[string]reflect.Value) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listeners := append([]listener(nil), r.listeners...)
	methods := make(map[string]reflect.Value, len(r.methods))
	for name, v := range r.methods {
		methods[name] = v
	}
	return listeners, methods
}

// NewSchema creates a schema with the given options. The options map is kept,
// not copied, and every onInit listener is called with it in installation
// order. A nil map is replaced with an empty one.
func (r *Registry) NewSchema(options Options) (*Schema, error) {
	if options == nil {
		options = Options{}
	}

	listeners, methods := r.snapshot()
	s := newSchema(r, options, methods)

	for i, l := range listeners {
		if err := l(options); err != nil {
			return nil, gerrors.Wrap(err, gerrors.Configuration, "onInit listener %d failed", i)
		}
	}

	s.logger.Debug("schema created", zap.Int("listeners", len(listeners)), zap.Int("methods", len(methods)))
	return s, nil
}

// NewSchemaFrom creates a schema from loosely typed options, such as a
// decoded YAML or JSON document. v must be nil or a mapping with string keys.
func (r *Registry) NewSchemaFrom(v interface{}) (*Schema, error) {
	switch o := v.(type) {
	case nil:
		return r.NewSchema(nil)
	case Options:
		return r.NewSchema(o)
	case map[string]interface{}:
		return r.NewSchema(Options(o))
	case map[interface{}]interface{}:
		options := make(Options, len(o))
		for k, val := range o {
			key, ok := k.(string)
			if !ok {
				return nil, gerrors.New(gerrors.Configuration, "option keys must be strings, got %T", k)
			}
			options[key] = val
		}
		return r.NewSchema(options)
	}
	return nil, gerrors.New(gerrors.Configuration, "options must be a mapping, got %T", v)
}
