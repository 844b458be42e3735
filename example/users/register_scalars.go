package users

import (
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"go.appointy.com/graysql/schemabuilder"
)

// Email is a string holding an email address. Values without an "@" are
// rejected as arguments.
var Email = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Email",
	Description: "An email address.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			return v
		case *string:
			if v == nil {
				return nil
			}
			return *v
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseEmail(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		return parseEmail(v.Value)
	},
})

func parseEmail(s string) interface{} {
	if i := strings.Index(s, "@"); i <= 0 || i == len(s)-1 {
		return nil
	}
	return s
}

// RegisterScalars registers the custom scalars of the example.
func RegisterScalars(sb *schemabuilder.Schema) error {
	_, err := sb.RegisterScalar(Email)
	return err
}
