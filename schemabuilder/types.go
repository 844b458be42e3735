package schemabuilder

import (
	"reflect"

	"github.com/graphql-go/graphql"
)

// Options holds the configuration given to NewSchema. onInit listeners receive
// the same map and may change it before construction completes.
type Options map[string]interface{}

// TypeFunc returns the definition of an object type. It is called once, at
// registration, with the schema the type is registered on.
type TypeFunc func(s *Schema) *TypeConfig

// InterfaceFunc returns the definition of an interface.
type InterfaceFunc func(s *Schema) *InterfaceConfig

// QueryFunc returns the root field added to the Query type.
type QueryFunc func(s *Schema) *Field

// MutationFunc returns the root field added to the Mutation type.
type MutationFunc func(s *Schema) *Field

// TypeConfig describes an object type.
//
// For example, a User type implementing Node:
//   func User(s *schemabuilder.Schema) *schemabuilder.TypeConfig {
//     return &schemabuilder.TypeConfig{
//       Name: "User",
//       Fields: schemabuilder.Fields{
//         "id":   {Type: "ID!"},
//         "name": {Type: "String"},
//       },
//       Interfaces: func() []string { return []string{"Node"} },
//     }
//   }
type TypeConfig struct {
	Name        string
	Description string
	Fields      Fields

	// Interfaces lists the names of the interfaces the type implements. It is
	// evaluated once, when the type is registered.
	Interfaces func() []string

	// IsTypeOf is optional and reports whether a value belongs to this type.
	IsTypeOf func(value interface{}) bool
}

// InterfaceConfig describes an interface.
type InterfaceConfig struct {
	Name        string
	Description string
	Fields      Fields

	// ResolveType returns the name of the object type of value. When nil the
	// type is found with TypeNameOf.
	ResolveType func(value interface{}) string
}

// Fields maps field names to their definitions.
type Fields map[string]*Field

// Field is a field of an object or interface, or a root query or mutation.
type Field struct {
	// Type is a GraphQL type reference such as "Int", "User!" or "[Group!]".
	Type              string
	Description       string
	DeprecationReason string
	Args              Args

	// Resolve is handed to the execution engine as is. When nil the engine
	// default resolver reads the field from the source value.
	Resolve graphql.FieldResolveFn
}

// Args maps argument names to their definitions.
type Args map[string]*Argument

// Argument is an argument of a field. Its type must name a scalar.
type Argument struct {
	Type         string
	Description  string
	DefaultValue interface{}
}

// Typed can be implemented by values returned from resolvers of interface
// fields to name their object type.
type Typed interface {
	GraphQLTypeName() string
}

// TypeNameOf returns the GraphQL object type name of a resolved value. It uses,
// in order: the Typed interface, a "__typename" key of a map and the name of
// the Go struct type.
func TypeNameOf(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case Typed:
		return v.GraphQLTypeName()
	case map[string]interface{}:
		name, _ := v["__typename"].(string)
		return name
	}

	typ := reflect.TypeOf(value)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Name()
}

// typeEntry is a registered type with its interfaces evaluated.
type typeEntry struct {
	fn         TypeFunc
	config     *TypeConfig
	interfaces []string
}

type interfaceEntry struct {
	fn     InterfaceFunc
	config *InterfaceConfig
}

// fieldEntry is a registered root field. fn is a QueryFunc or a MutationFunc.
type fieldEntry struct {
	fn    func(*Schema) *Field
	field *Field
}

// ordered is a name keyed store which remembers registration order.
// Replacing an entry keeps its position.
type ordered[T any] struct {
	names  []string
	values map[string]T
}

func newOrdered[T any]() *ordered[T] {
	return &ordered[T]{values: make(map[string]T)}
}

func (o *ordered[T]) has(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o *ordered[T]) get(name string) (T, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *ordered[T]) set(name string, v T) {
	if !o.has(name) {
		o.names = append(o.names, name)
	}
	o.values[name] = v
}

func (o *ordered[T]) keys() []string {
	return append([]string(nil), o.names...)
}

func (o *ordered[T]) len() int {
	return len(o.names)
}
