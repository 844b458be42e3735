// Package definition loads schema definitions from YAML files and registers
// them on a schemabuilder.Schema.
package definition

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/graphql-go/graphql"
	"gopkg.in/yaml.v3"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

// File is a schema definition file.
type File struct {
	// Options are passed to the schema constructor. They must be a mapping.
	Options    interface{}      `yaml:"options"`
	Interfaces []Object         `yaml:"interfaces"`
	Types      []Object         `yaml:"types"`
	Queries    map[string]Field `yaml:"queries"`
	Mutations  map[string]Field `yaml:"mutations"`
}

// Object is an interface or a type.
type Object struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Interfaces  []string         `yaml:"interfaces"`
	Fields      map[string]Field `yaml:"fields"`
}

// Field is a field of an object or a root field.
type Field struct {
	Type        string              `yaml:"type"`
	Description string              `yaml:"description"`
	Deprecated  string              `yaml:"deprecated"`
	Args        map[string]Argument `yaml:"args"`

	// Value is returned by root fields. Maps may name their type for interface
	// fields with a "__typename" key.
	Value interface{} `yaml:"value"`
}

// Argument is an argument of a field.
type Argument struct {
	Type        string      `yaml:"type"`
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
}

// Load decodes a definition. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, gerrors.Wrap(err, gerrors.Configuration, "invalid definition")
	}
	return &f, nil
}

// LoadFile decodes the definition stored at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.Configuration, "%s", path)
	}
	return f, nil
}

// NewSchema creates a schema from r with the options of f and registers the
// definitions of f on it.
func (f *File) NewSchema(r *schemabuilder.Registry) (*schemabuilder.Schema, error) {
	s, err := r.NewSchemaFrom(f.Options)
	if err != nil {
		return nil, err
	}
	if err := f.Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Register registers interfaces, then types, then queries and mutations in
// name order.
func (f *File) Register(s *schemabuilder.Schema) error {
	for _, o := range f.Interfaces {
		o := o
		if _, err := s.RegisterInterface(func(*schemabuilder.Schema) *schemabuilder.InterfaceConfig {
			return &schemabuilder.InterfaceConfig{
				Name:        o.Name,
				Description: o.Description,
				Fields:      fields(o.Fields),
			}
		}); err != nil {
			return err
		}
	}

	for _, o := range f.Types {
		o := o
		if _, err := s.RegisterType(func(*schemabuilder.Schema) *schemabuilder.TypeConfig {
			return &schemabuilder.TypeConfig{
				Name:        o.Name,
				Description: o.Description,
				Fields:      fields(o.Fields),
				Interfaces:  func() []string { return o.Interfaces },
			}
		}); err != nil {
			return err
		}
	}

	for _, name := range sortedNames(f.Queries) {
		q := f.Queries[name]
		if _, err := s.AddQuery(name, func(*schemabuilder.Schema) *schemabuilder.Field {
			return rootField(q)
		}); err != nil {
			return err
		}
	}

	for _, name := range sortedNames(f.Mutations) {
		m := f.Mutations[name]
		if _, err := s.AddMutation(name, func(*schemabuilder.Schema) *schemabuilder.Field {
			return rootField(m)
		}); err != nil {
			return err
		}
	}
	return nil
}

func fields(in map[string]Field) schemabuilder.Fields {
	out := make(schemabuilder.Fields, len(in))
	for name, f := range in {
		out[name] = field(f)
	}
	return out
}

func field(f Field) *schemabuilder.Field {
	out := &schemabuilder.Field{
		Type:              f.Type,
		Description:       f.Description,
		DeprecationReason: f.Deprecated,
	}
	if len(f.Args) > 0 {
		out.Args = make(schemabuilder.Args, len(f.Args))
		for name, a := range f.Args {
			out.Args[name] = &schemabuilder.Argument{
				Type:         a.Type,
				Description:  a.Description,
				DefaultValue: a.Default,
			}
		}
	}
	return out
}

// rootField returns f resolving to its value.
func rootField(f Field) *schemabuilder.Field {
	out := field(f)
	value := f.Value
	out.Resolve = func(graphql.ResolveParams) (interface{}, error) {
		return value, nil
	}
	return out
}

func sortedNames(m map[string]Field) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
