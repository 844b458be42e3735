// Package introspection runs the standard introspection query against schemas
// generated by the schemabuilder package.
package introspection

import (
	"context"
	"encoding/json"

	"github.com/graphql-go/graphql"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

// Result is the data of an introspection query.
type Result struct {
	Schema Schema `json:"__schema"`
}

// Schema is the __schema object, limited to what callers usually inspect.
type Schema struct {
	QueryType        *TypeName `json:"queryType"`
	MutationType     *TypeName `json:"mutationType"`
	SubscriptionType *TypeName `json:"subscriptionType"`
	Types            []Type    `json:"types"`
}

// TypeName names a root type.
type TypeName struct {
	Name string `json:"name"`
}

// Type is an entry of __schema.types.
type Type struct {
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Fields        []Field    `json:"fields"`
	Interfaces    []TypeName `json:"interfaces"`
	PossibleTypes []TypeName `json:"possibleTypes"`
}

// Field is a field of an introspected type.
type Field struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

// Run executes IntrospectionQuery against schema and returns the raw data.
func Run(ctx context.Context, schema graphql.Schema) (interface{}, error) {
	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: IntrospectionQuery,
		Context:       ctx,
	})
	if result.HasErrors() {
		return nil, gerrors.New(gerrors.Unknown, "introspection failed: %s", result.Errors[0].Message)
	}
	return result.Data, nil
}

// ComputeSchemaJSON returns the result of executing a GraphQL introspection
// query on the schema generated by b.
func ComputeSchemaJSON(b *schemabuilder.Schema) ([]byte, error) {
	schema, err := b.GenerateSchema()
	if err != nil {
		return nil, err
	}

	value, err := Run(context.Background(), schema)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(value, "", "  ")
}

// Inspect generates the schema of b and decodes its introspection.
func Inspect(b *schemabuilder.Schema) (*Result, error) {
	data, err := ComputeSchemaJSON(b)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Type returns the introspected type called name.
func (r *Result) Type(name string) (Type, bool) {
	for _, t := range r.Schema.Types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}
