package schemabuilder

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"go.appointy.com/graysql/gerrors"
)

// parseRef parses a type reference such as "[User!]!". References are parsed
// as the type of a field in a one field object definition, so anything that is
// not exactly one type reference is rejected.
func (s *Schema) parseRef(ref string) (*ast.Type, *gerrors.Error) {
	if t, ok := s.refs[ref]; ok {
		return t, nil
	}
	if ref == "" {
		return nil, gerrors.New(gerrors.Configuration, "missing type reference")
	}

	doc, err := parser.ParseSchema(&ast.Source{Name: "type reference", Input: "type T { f: " + ref + " }"})
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.Configuration, "invalid type reference %q", ref)
	}
	if len(doc.Definitions) != 1 || len(doc.Definitions[0].Fields) != 1 || len(doc.Definitions[0].Directives) != 0 {
		return nil, gerrors.New(gerrors.Configuration, "invalid type reference %q", ref)
	}
	field := doc.Definitions[0].Fields[0]
	if len(field.Directives) != 0 || field.DefaultValue != nil || len(field.Arguments) != 0 {
		return nil, gerrors.New(gerrors.Configuration, "invalid type reference %q", ref)
	}

	s.refs[ref] = field.Type
	return field.Type, nil
}

// checkOutput checks that ref names a scalar, a type or an interface.
func (s *Schema) checkOutput(ref string) *gerrors.Error {
	t, err := s.parseRef(ref)
	if err != nil {
		return err
	}
	name := t.Name()
	if s.scalars.has(name) || s.types.has(name) || s.interfaces.has(name) {
		return nil
	}
	return gerrors.New(gerrors.Reference, "unknown type %s", name)
}

// checkInput checks that ref names a scalar.
func (s *Schema) checkInput(ref string) *gerrors.Error {
	t, err := s.parseRef(ref)
	if err != nil {
		return err
	}
	name := t.Name()
	if s.scalars.has(name) {
		return nil
	}
	if s.types.has(name) || s.interfaces.has(name) {
		return gerrors.New(gerrors.Configuration, "%s is not an input type", name)
	}
	return gerrors.New(gerrors.Reference, "unknown type %s", name)
}

func (s *Schema) checkArgs(args Args) *gerrors.Error {
	for _, name := range sortedArgs(args) {
		arg := args[name]
		if arg == nil {
			return gerrors.New(gerrors.Configuration, "argument %s has no definition", name)
		}
		if err := s.checkInput(arg.Type); err != nil {
			return err.WithPath(name)
		}
	}
	return nil
}

// checkFields checks every field of a type or interface.
func (s *Schema) checkFields(owner string, fields Fields) *gerrors.Error {
	if len(fields) == 0 {
		return gerrors.New(gerrors.Configuration, "%s must define at least one field", owner)
	}
	for _, name := range sortedFields(fields) {
		field := fields[name]
		if field == nil {
			return gerrors.New(gerrors.Configuration, "%s.%s has no definition", owner, name)
		}
		if err := s.checkOutput(field.Type); err != nil {
			return err.WithPath(owner, name)
		}
		if err := s.checkArgs(field.Args); err != nil {
			return err.WithPath(owner, name)
		}
	}
	return nil
}

// validate checks every cross reference between the registered definitions.
func (s *Schema) validate() error {
	for _, name := range s.interfaces.keys() {
		e, _ := s.interfaces.get(name)
		if err := s.checkFields(name, e.config.Fields); err != nil {
			return err
		}
	}
	for _, name := range s.types.keys() {
		e, _ := s.types.get(name)
		for _, iface := range e.interfaces {
			if !s.interfaces.has(iface) {
				return gerrors.New(gerrors.Reference, "type %s implements unknown interface %s", name, iface)
			}
		}
		if err := s.checkFields(name, e.config.Fields); err != nil {
			return err
		}
	}
	for _, root := range []*ordered[*fieldEntry]{s.queries, s.mutations} {
		for _, name := range root.keys() {
			e, _ := root.get(name)
			if err := s.checkOutput(e.field.Type); err != nil {
				return err.WithPath(name)
			}
			if err := s.checkArgs(e.field.Args); err != nil {
				return err.WithPath(name)
			}
		}
	}
	if s.queries.len() == 0 {
		return gerrors.New(gerrors.Configuration, "schema must have at least one query")
	}
	return nil
}

func sortedFields(fields Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedArgs(args Args) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
