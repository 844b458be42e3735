package introspection_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/introspection"
	"go.appointy.com/graysql/schemabuilder"
)

func buildSchema(t *testing.T) *schemabuilder.Schema {
	t.Helper()

	s, err := schemabuilder.NewRegistry().NewSchema(nil)
	require.NoError(t, err)

	_, err = s.RegisterInterface(func(*schemabuilder.Schema) *schemabuilder.InterfaceConfig {
		return &schemabuilder.InterfaceConfig{
			Name:        "Node",
			Description: "An object with an ID.",
			Fields:      schemabuilder.Fields{"id": {Type: "ID!"}},
		}
	})
	require.NoError(t, err)
	for _, name := range []string{"User", "Group"} {
		name := name
		_, err = s.RegisterType(func(*schemabuilder.Schema) *schemabuilder.TypeConfig {
			return &schemabuilder.TypeConfig{
				Name: name,
				Fields: schemabuilder.Fields{
					"id":    {Type: "ID!"},
					"title": {Type: "String", DeprecationReason: "Use name"},
					"name":  {Type: "String"},
				},
				Interfaces: func() []string { return []string{"Node"} },
			}
		})
		require.NoError(t, err)
	}
	_, err = s.AddQuery("node", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{Type: "Node", Args: schemabuilder.Args{"id": {Type: "ID!"}}}
	})
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	result, err := introspection.Inspect(buildSchema(t))
	require.NoError(t, err)

	require.Equal(t, "Query", result.Schema.QueryType.Name)
	require.Nil(t, result.Schema.MutationType)
	require.Nil(t, result.Schema.SubscriptionType)

	node, ok := result.Type("Node")
	require.True(t, ok)
	require.Equal(t, "INTERFACE", node.Kind)
	require.Equal(t, "An object with an ID.", node.Description)

	var possible []string
	for _, p := range node.PossibleTypes {
		possible = append(possible, p.Name)
	}
	sort.Strings(possible)
	require.Equal(t, []string{"Group", "User"}, possible)

	user, ok := result.Type("User")
	require.True(t, ok)
	require.Equal(t, "OBJECT", user.Kind)
	require.Equal(t, []introspection.TypeName{{Name: "Node"}}, user.Interfaces)

	fields := map[string]introspection.Field{}
	for _, f := range user.Fields {
		fields[f.Name] = f
	}
	require.Len(t, fields, 3)
	require.True(t, fields["title"].IsDeprecated)
	require.Equal(t, "Use name", *fields["title"].DeprecationReason)
	require.False(t, fields["name"].IsDeprecated)

	_, ok = result.Type("Missing")
	require.False(t, ok)
}

func TestComputeSchemaJSON(t *testing.T) {
	data, err := introspection.ComputeSchemaJSON(buildSchema(t))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "__schema")
}

func TestComputeSchemaJSONInvalid(t *testing.T) {
	s, err := schemabuilder.NewRegistry().NewSchema(nil)
	require.NoError(t, err)

	_, err = introspection.ComputeSchemaJSON(s)
	require.True(t, gerrors.HasCode(err, gerrors.Configuration), "got %v", err)
}

func TestRun(t *testing.T) {
	schema, err := buildSchema(t).GenerateSchema()
	require.NoError(t, err)

	data, err := introspection.Run(context.Background(), schema)
	require.NoError(t, err)
	require.Contains(t, data, "__schema")
}
