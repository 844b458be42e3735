package schemabuilder

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"go.appointy.com/graysql/gerrors"
)

// Root type names. They can't be used by registered types or interfaces.
const (
	QueryTypeName    = "Query"
	MutationTypeName = "Mutation"
)

// Schema accumulates types, interfaces, queries and mutations and generates a
// GraphQL schema from them. A Schema is not safe for concurrent use.
type Schema struct {
	id       uuid.UUID
	options  Options
	registry *Registry
	methods  map[string]reflect.Value
	logger   *zap.Logger

	scalars    *ordered[*graphql.Scalar]
	types      *ordered[*typeEntry]
	interfaces *ordered[*interfaceEntry]
	queries    *ordered[*fieldEntry]
	mutations  *ordered[*fieldEntry]

	refs map[string]*ast.Type
}

func newSchema(r *Registry, options Options, methods map[string]reflect.Value) *Schema {
	id := uuid.New()
	return &Schema{
		id:         id,
		options:    options,
		registry:   r,
		methods:    methods,
		logger:     r.logger.With(zap.String("schema", id.String())),
		scalars:    defaultScalars(),
		types:      newOrdered[*typeEntry](),
		interfaces: newOrdered[*interfaceEntry](),
		queries:    newOrdered[*fieldEntry](),
		mutations:  newOrdered[*fieldEntry](),
		refs:       make(map[string]*ast.Type),
	}
}

// ID identifies the schema in logs.
func (s *Schema) ID() uuid.UUID {
	return s.id
}

// Options returns the options the schema was created with, as changed by the
// onInit listeners.
func (s *Schema) Options() Options {
	return s.options
}

// Registry returns the registry the schema was created from.
func (s *Schema) Registry() *Registry {
	return s.registry
}

func isOverwrite(overwrite []bool) bool {
	return len(overwrite) > 0 && overwrite[0]
}

// checkName rejects names taken by another kind of definition.
func (s *Schema) checkName(kind, name string) error {
	if name == QueryTypeName || name == MutationTypeName {
		return gerrors.New(gerrors.Conflict, "%s name %s is reserved", kind, name)
	}
	if kind != "scalar" && s.scalars.has(name) {
		return gerrors.New(gerrors.Conflict, "%s %s conflicts with the scalar %s", kind, name, name)
	}
	if kind != "type" && s.types.has(name) {
		return gerrors.New(gerrors.Conflict, "%s %s conflicts with the type %s", kind, name, name)
	}
	if kind != "interface" && s.interfaces.has(name) {
		return gerrors.New(gerrors.Conflict, "%s %s conflicts with the interface %s", kind, name, name)
	}
	return nil
}

// RegisterType registers the type returned by fn and returns fn. It fails if a
// type with the same name exists, unless overwrite is true, or if the type
// implements an interface that is not registered.
func (s *Schema) RegisterType(fn TypeFunc, overwrite ...bool) (TypeFunc, error) {
	if fn == nil {
		return nil, gerrors.New(gerrors.Type, "registerType expects a type function")
	}

	config := fn(s)
	if config == nil || config.Name == "" {
		return nil, gerrors.New(gerrors.Configuration, "type function must return a named type")
	}
	name := config.Name
	if err := s.checkName("type", name); err != nil {
		return nil, err
	}
	if s.types.has(name) && !isOverwrite(overwrite) {
		return nil, gerrors.New(gerrors.Conflict, "type %s is already registered", name)
	}

	var interfaces []string
	if config.Interfaces != nil {
		interfaces = append(interfaces, config.Interfaces()...)
	}
	seen := make(map[string]bool, len(interfaces))
	for _, iface := range interfaces {
		if seen[iface] {
			return nil, gerrors.New(gerrors.Configuration, "type %s lists interface %s twice", name, iface)
		}
		seen[iface] = true
		if !s.interfaces.has(iface) {
			return nil, gerrors.New(gerrors.Reference, "type %s implements unknown interface %s", name, iface)
		}
	}

	s.types.set(name, &typeEntry{fn: fn, config: config, interfaces: interfaces})
	s.logger.Debug("type registered", zap.String("type", name), zap.Strings("interfaces", interfaces), zap.Bool("overwrite", isOverwrite(overwrite)))
	return fn, nil
}

// RegisterInterface registers the interface returned by fn and returns fn. It
// fails if an interface with the same name exists, unless overwrite is true.
func (s *Schema) RegisterInterface(fn InterfaceFunc, overwrite ...bool) (InterfaceFunc, error) {
	if fn == nil {
		return nil, gerrors.New(gerrors.Type, "registerInterface expects an interface function")
	}

	config := fn(s)
	if config == nil || config.Name == "" {
		return nil, gerrors.New(gerrors.Configuration, "interface function must return a named interface")
	}
	name := config.Name
	if err := s.checkName("interface", name); err != nil {
		return nil, err
	}
	if s.interfaces.has(name) && !isOverwrite(overwrite) {
		return nil, gerrors.New(gerrors.Conflict, "interface %s is already registered", name)
	}

	s.interfaces.set(name, &interfaceEntry{fn: fn, config: config})
	s.logger.Debug("interface registered", zap.String("interface", name), zap.Bool("overwrite", isOverwrite(overwrite)))
	return fn, nil
}

// RegisterScalar adds a custom scalar. The scalars defined by GraphQL can't be
// replaced.
func (s *Schema) RegisterScalar(scalar *graphql.Scalar, overwrite ...bool) (*graphql.Scalar, error) {
	if scalar == nil {
		return nil, gerrors.New(gerrors.Type, "registerScalar expects a scalar")
	}
	if err := scalar.Error(); err != nil {
		return nil, gerrors.Wrap(err, gerrors.Configuration, "invalid scalar")
	}
	name := scalar.Name()
	if _, ok := builtinScalars[name]; ok {
		return nil, gerrors.New(gerrors.Conflict, "scalar %s is built in", name)
	}
	if err := s.checkName("scalar", name); err != nil {
		return nil, err
	}
	if s.scalars.has(name) && !isOverwrite(overwrite) {
		return nil, gerrors.New(gerrors.Conflict, "scalar %s is already registered", name)
	}

	s.scalars.set(name, scalar)
	s.logger.Debug("scalar registered", zap.String("scalar", name))
	return scalar, nil
}

// AddQuery adds the field returned by fn to the Query type under name and
// returns fn.
func (s *Schema) AddQuery(name string, fn QueryFunc, overwrite ...bool) (QueryFunc, error) {
	if fn == nil {
		return nil, gerrors.New(gerrors.Type, "addQuery expects a query function")
	}
	if err := s.addField("query", s.queries, name, fn, isOverwrite(overwrite)); err != nil {
		return nil, err
	}
	return fn, nil
}

// AddMutation adds the field returned by fn to the Mutation type under name
// and returns fn.
func (s *Schema) AddMutation(name string, fn MutationFunc, overwrite ...bool) (MutationFunc, error) {
	if fn == nil {
		return nil, gerrors.New(gerrors.Type, "addMutation expects a mutation function")
	}
	if err := s.addField("mutation", s.mutations, name, fn, isOverwrite(overwrite)); err != nil {
		return nil, err
	}
	return fn, nil
}

func (s *Schema) addField(kind string, fields *ordered[*fieldEntry], name string, fn func(*Schema) *Field, overwrite bool) error {
	if name == "" {
		return gerrors.New(gerrors.Configuration, "%s must have a name", kind)
	}

	field := fn(s)
	if field == nil {
		return gerrors.New(gerrors.Configuration, "%s %s must return a field", kind, name)
	}
	if err := s.checkOutput(field.Type); err != nil {
		return err.WithPath(name)
	}
	if err := s.checkArgs(field.Args); err != nil {
		return err.WithPath(name)
	}
	if fields.has(name) && !overwrite {
		return gerrors.New(gerrors.Conflict, "%s %s is already added", kind, name)
	}

	fields.set(name, &fieldEntry{fn: fn, field: field})
	s.logger.Debug(kind+" added", zap.String("name", name), zap.String("type", field.Type), zap.Bool("overwrite", overwrite))
	return nil
}

// Type returns the definition of a registered type.
func (s *Schema) Type(name string) (*TypeConfig, bool) {
	e, ok := s.types.get(name)
	if !ok {
		return nil, false
	}
	return e.config, true
}

// Interface returns the definition of a registered interface.
func (s *Schema) Interface(name string) (*InterfaceConfig, bool) {
	e, ok := s.interfaces.get(name)
	if !ok {
		return nil, false
	}
	return e.config, true
}

// Query returns the field of an added query.
func (s *Schema) Query(name string) (*Field, bool) {
	e, ok := s.queries.get(name)
	if !ok {
		return nil, false
	}
	return e.field, true
}

// Mutation returns the field of an added mutation.
func (s *Schema) Mutation(name string) (*Field, bool) {
	e, ok := s.mutations.get(name)
	if !ok {
		return nil, false
	}
	return e.field, true
}

// Types returns the names of the registered types in registration order.
func (s *Schema) Types() []string { return s.types.keys() }

// Interfaces returns the names of the registered interfaces in registration order.
func (s *Schema) Interfaces() []string { return s.interfaces.keys() }

// Queries returns the names of the added queries in registration order.
func (s *Schema) Queries() []string { return s.queries.keys() }

// Mutations returns the names of the added mutations in registration order.
func (s *Schema) Mutations() []string { return s.mutations.keys() }

// Scalars returns the names of the known scalars, built in ones first.
func (s *Schema) Scalars() []string { return s.scalars.keys() }
