package schemabuilder

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"go.appointy.com/graysql/gerrors"
)

// PrintSchema validates the registered definitions like GenerateSchema and
// returns them in the GraphQL schema definition language. Custom scalars are
// only printed when something refers to them.
func (s *Schema) PrintSchema() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}

	doc := &ast.SchemaDocument{}
	used := make(map[string]bool)

	var defs ast.DefinitionList
	for _, name := range s.interfaces.keys() {
		e, _ := s.interfaces.get(name)
		defs = append(defs, &ast.Definition{
			Kind:        ast.Interface,
			Name:        name,
			Description: e.config.Description,
			Fields:      s.fieldList(e.config.Fields, used),
		})
	}
	for _, name := range s.types.keys() {
		e, _ := s.types.get(name)
		defs = append(defs, &ast.Definition{
			Kind:        ast.Object,
			Name:        name,
			Description: e.config.Description,
			Interfaces:  e.interfaces,
			Fields:      s.fieldList(e.config.Fields, used),
		})
	}
	defs = append(defs, &ast.Definition{
		Kind:   ast.Object,
		Name:   QueryTypeName,
		Fields: s.rootFieldList(s.queries, used),
	})
	if s.mutations.len() > 0 {
		defs = append(defs, &ast.Definition{
			Kind:   ast.Object,
			Name:   MutationTypeName,
			Fields: s.rootFieldList(s.mutations, used),
		})
	}

	for _, name := range s.scalars.keys() {
		if _, ok := builtinScalars[name]; ok || !used[name] {
			continue
		}
		scalar, _ := s.scalars.get(name)
		doc.Definitions = append(doc.Definitions, &ast.Definition{
			Kind:        ast.Scalar,
			Name:        name,
			Description: scalar.Description(),
		})
	}
	doc.Definitions = append(doc.Definitions, defs...)

	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	sdl := buf.String()

	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl}); err != nil {
		return "", gerrors.Wrap(err, gerrors.Configuration, "invalid schema")
	}
	return sdl, nil
}

func (s *Schema) rootFieldList(fields *ordered[*fieldEntry], used map[string]bool) ast.FieldList {
	list := make(ast.FieldList, 0, fields.len())
	for _, name := range fields.keys() {
		e, _ := fields.get(name)
		list = append(list, s.fieldDefinition(name, e.field, used))
	}
	return list
}

func (s *Schema) fieldList(fields Fields, used map[string]bool) ast.FieldList {
	list := make(ast.FieldList, 0, len(fields))
	for _, name := range sortedFields(fields) {
		list = append(list, s.fieldDefinition(name, fields[name], used))
	}
	return list
}

func (s *Schema) fieldDefinition(name string, f *Field, used map[string]bool) *ast.FieldDefinition {
	t := s.refs[f.Type]
	used[t.Name()] = true

	def := &ast.FieldDefinition{
		Name:        name,
		Description: f.Description,
		Type:        t,
	}
	for _, argName := range sortedArgs(f.Args) {
		arg := f.Args[argName]
		at := s.refs[arg.Type]
		used[at.Name()] = true
		def.Arguments = append(def.Arguments, &ast.ArgumentDefinition{
			Name:         argName,
			Description:  arg.Description,
			Type:         at,
			DefaultValue: literal(arg.DefaultValue),
		})
	}
	if f.DeprecationReason != "" {
		def.Directives = append(def.Directives, &ast.Directive{
			Name: "deprecated",
			Arguments: ast.ArgumentList{{
				Name:  "reason",
				Value: &ast.Value{Kind: ast.StringValue, Raw: f.DeprecationReason},
			}},
		})
	}
	return def
}

// literal converts a default value to a GraphQL literal. Values that have no
// literal form are left out.
func literal(v interface{}) *ast.Value {
	switch v := v.(type) {
	case string:
		return &ast.Value{Kind: ast.StringValue, Raw: v}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v)}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &ast.Value{Kind: ast.IntValue, Raw: fmt.Sprint(v)}
	case float32:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(float64(v), 'g', -1, 32)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return nil
}
