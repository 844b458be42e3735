package schemabuilder

import (
	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"go.appointy.com/graysql/gerrors"
)

// schemaBuilder compiles the registered definitions into graphql-go types.
// A new one is used for every generation so generated schemas share nothing.
type schemaBuilder struct {
	schema     *Schema
	objects    map[string]*graphql.Object
	interfaces map[string]*graphql.Interface

	// implementations holds, per interface, the types implementing it in
	// registration order, as they were when the schema was generated.
	implementations map[string][]implementation
}

type implementation struct {
	name     string
	isTypeOf func(value interface{}) bool
}

// GenerateSchema validates every cross reference and returns the executable
// schema. Every registered type and interface is part of the result, whether
// or not a query reaches it. GenerateSchema does not change s and can be
// called any number of times.
func (s *Schema) GenerateSchema() (graphql.Schema, error) {
	if err := s.validate(); err != nil {
		return graphql.Schema{}, err
	}

	sb := &schemaBuilder{
		schema:          s,
		objects:         make(map[string]*graphql.Object, s.types.len()),
		interfaces:      make(map[string]*graphql.Interface, s.interfaces.len()),
		implementations: make(map[string][]implementation, s.interfaces.len()),
	}
	schema, err := sb.build()
	if err != nil {
		return graphql.Schema{}, err
	}

	s.logger.Debug("schema generated",
		zap.Int("types", s.types.len()),
		zap.Int("interfaces", s.interfaces.len()),
		zap.Int("queries", s.queries.len()),
		zap.Int("mutations", s.mutations.len()),
	)
	return schema, nil
}

// MustGenerateSchema is like GenerateSchema but panics on error.
func (s *Schema) MustGenerateSchema() graphql.Schema {
	schema, err := s.GenerateSchema()
	if err != nil {
		panic(err)
	}
	return schema
}

func (sb *schemaBuilder) build() (graphql.Schema, error) {
	s := sb.schema
	var types []graphql.Type

	for _, name := range s.types.keys() {
		e, _ := s.types.get(name)
		for _, iface := range e.interfaces {
			sb.implementations[iface] = append(sb.implementations[iface], implementation{
				name:     name,
				isTypeOf: e.config.IsTypeOf,
			})
		}
	}

	for _, name := range s.interfaces.keys() {
		e, _ := s.interfaces.get(name)
		config := e.config
		iface := graphql.NewInterface(graphql.InterfaceConfig{
			Name:        config.Name,
			Description: config.Description,
			Fields:      sb.fieldsThunk(config.Fields),
			ResolveType: sb.resolveType(config),
		})
		sb.interfaces[name] = iface
		types = append(types, iface)
	}

	for _, name := range s.types.keys() {
		e, _ := s.types.get(name)
		config := e.config

		interfaces := make([]*graphql.Interface, 0, len(e.interfaces))
		for _, iface := range e.interfaces {
			interfaces = append(interfaces, sb.interfaces[iface])
		}

		var isTypeOf graphql.IsTypeOfFn
		if config.IsTypeOf != nil {
			isTypeOf = func(p graphql.IsTypeOfParams) bool {
				return config.IsTypeOf(p.Value)
			}
		}

		obj := graphql.NewObject(graphql.ObjectConfig{
			Name:        config.Name,
			Description: config.Description,
			Interfaces:  interfaces,
			Fields:      sb.fieldsThunk(config.Fields),
			IsTypeOf:    isTypeOf,
		})
		sb.objects[name] = obj
		types = append(types, obj)
	}

	for _, name := range s.scalars.keys() {
		if _, ok := builtinScalars[name]; ok {
			continue
		}
		scalar, _ := s.scalars.get(name)
		types = append(types, scalar)
	}

	config := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   QueryTypeName,
			Fields: sb.rootFields(s.queries),
		}),
		Types: types,
	}
	if s.mutations.len() > 0 {
		config.Mutation = graphql.NewObject(graphql.ObjectConfig{
			Name:   MutationTypeName,
			Fields: sb.rootFields(s.mutations),
		})
	}

	schema, err := graphql.NewSchema(config)
	if err != nil {
		return graphql.Schema{}, gerrors.Wrap(err, gerrors.Configuration, "invalid schema")
	}
	return schema, nil
}

// fieldsThunk defers field construction so types can refer to each other.
func (sb *schemaBuilder) fieldsThunk(fields Fields) graphql.FieldsThunk {
	return func() graphql.Fields {
		out := make(graphql.Fields, len(fields))
		for name, f := range fields {
			out[name] = sb.field(name, f)
		}
		return out
	}
}

func (sb *schemaBuilder) rootFields(fields *ordered[*fieldEntry]) graphql.Fields {
	out := make(graphql.Fields, fields.len())
	for _, name := range fields.keys() {
		e, _ := fields.get(name)
		out[name] = sb.field(name, e.field)
	}
	return out
}

func (sb *schemaBuilder) field(name string, f *Field) *graphql.Field {
	out := &graphql.Field{
		Name:              name,
		Type:              sb.output(sb.schema.refs[f.Type]),
		Description:       f.Description,
		DeprecationReason: f.DeprecationReason,
		Resolve:           f.Resolve,
	}
	if len(f.Args) > 0 {
		out.Args = make(graphql.FieldConfigArgument, len(f.Args))
		for argName, arg := range f.Args {
			out.Args[argName] = &graphql.ArgumentConfig{
				Type:         sb.input(sb.schema.refs[arg.Type]),
				Description:  arg.Description,
				DefaultValue: arg.DefaultValue,
			}
		}
	}
	return out
}

// output converts a validated reference to an output type.
func (sb *schemaBuilder) output(t *ast.Type) graphql.Output {
	var out graphql.Output
	if t.Elem != nil {
		out = graphql.NewList(sb.output(t.Elem))
	} else if obj, ok := sb.objects[t.NamedType]; ok {
		out = obj
	} else if iface, ok := sb.interfaces[t.NamedType]; ok {
		out = iface
	} else {
		out, _ = sb.schema.scalars.get(t.NamedType)
	}
	if t.NonNull {
		out = graphql.NewNonNull(out)
	}
	return out
}

// input converts a validated reference to an input type.
func (sb *schemaBuilder) input(t *ast.Type) graphql.Input {
	var in graphql.Input
	if t.Elem != nil {
		in = graphql.NewList(sb.input(t.Elem))
	} else {
		in, _ = sb.schema.scalars.get(t.NamedType)
	}
	if t.NonNull {
		in = graphql.NewNonNull(in)
	}
	return in
}

// resolveType finds the object type of an interface value with, in order, the
// ResolveType of the interface, TypeNameOf and the IsTypeOf of the types
// implementing it.
func (sb *schemaBuilder) resolveType(config *InterfaceConfig) graphql.ResolveTypeFn {
	implementations := sb.implementations[config.Name]
	return func(p graphql.ResolveTypeParams) *graphql.Object {
		if config.ResolveType != nil {
			return sb.objects[config.ResolveType(p.Value)]
		}
		if obj, ok := sb.objects[TypeNameOf(p.Value)]; ok {
			return obj
		}

		for _, impl := range implementations {
			if impl.isTypeOf != nil && impl.isTypeOf(p.Value) {
				return sb.objects[impl.name]
			}
		}
		return nil
	}
}
