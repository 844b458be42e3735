package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.appointy.com/graysql/example/users"
	"go.appointy.com/graysql/introspection"
	"go.appointy.com/graysql/schemabuilder"
)

type response struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
		Paths []string `json:"paths"`
	} `json:"errors"`
}

func post(t *testing.T, url, query string, variables map[string]interface{}) response {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var r response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func TestGetGraphqlServer(t *testing.T) {
	h, err := users.GetGraphqlServer(zap.NewNop())
	require.NoError(t, err)

	server := httptest.NewServer(h)
	defer server.Close()

	t.Run("me", func(t *testing.T) {
		r := post(t, server.URL, `{ me { id name email birthDate groups { name } } }`, nil)
		require.Empty(t, r.Errors)

		want := map[string]interface{}{
			"me": map[string]interface{}{
				"id":        "u1",
				"name":      "John Doe",
				"email":     "jdoe@example.com",
				"birthDate": "1994-03-02T00:00:00Z",
				"groups": []interface{}{
					map[string]interface{}{"name": "admins"},
				},
			},
		}
		if diff := pretty.Compare(r.Data, want); diff != "" {
			t.Errorf("unexpected data (-got +want):\n%s", diff)
		}
	})

	t.Run("node", func(t *testing.T) {
		r := post(t, server.URL, `{
			group: node(id: "g1") { __typename id ... on Group { members { name } } }
			user: node(id: "u1") { __typename ... on User { role } }
			missing: node(id: "x") { id }
		}`, nil)
		require.Empty(t, r.Errors)

		want := map[string]interface{}{
			"group": map[string]interface{}{
				"__typename": "Group",
				"id":         "g1",
				"members":    []interface{}{map[string]interface{}{"name": "John Doe"}},
			},
			"user": map[string]interface{}{
				"__typename": "User",
				"role":       "ADMIN",
			},
			"missing": nil,
		}
		if diff := pretty.Compare(r.Data, want); diff != "" {
			t.Errorf("unexpected data (-got +want):\n%s", diff)
		}
	})

	t.Run("user not found", func(t *testing.T) {
		r := post(t, server.URL, `{ user(id: "nope") { id } }`, nil)
		require.Len(t, r.Errors, 1)
		require.Equal(t, "ReferenceError", r.Errors[0].Extensions.Code)
		require.Equal(t, []string{"user"}, r.Errors[0].Paths)
	})

	t.Run("create user and add member", func(t *testing.T) {
		r := post(t, server.URL, `mutation($email: Email!) {
			createUser(name: "Ada", email: $email) { id name role isActive }
		}`, map[string]interface{}{"email": "ada@example.com"})
		require.Empty(t, r.Errors)

		created := r.Data["createUser"].(map[string]interface{})
		require.Equal(t, "Ada", created["name"])
		require.Equal(t, "MEMBER", created["role"])
		require.Equal(t, true, created["isActive"])

		r = post(t, server.URL, `mutation($user: ID!) {
			addMember(groupId: "g1", userId: $user) { members { name } }
		}`, map[string]interface{}{"user": created["id"]})
		require.Empty(t, r.Errors)
		require.Len(t, r.Data["addMember"].(map[string]interface{})["members"], 2)

		r = post(t, server.URL, `{ allUsers { name } }`, nil)
		require.Empty(t, r.Errors)
		require.Len(t, r.Data["allUsers"], 2)
	})

	t.Run("duplicate email", func(t *testing.T) {
		r := post(t, server.URL, `mutation { createUser(name: "J", email: "jdoe@example.com") { id } }`, nil)
		require.Len(t, r.Errors, 1)
		require.Equal(t, "ConflictError", r.Errors[0].Extensions.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		r := post(t, server.URL, `mutation { createUser(name: "J", email: "nope") { id } }`, nil)
		require.NotEmpty(t, r.Errors)
		require.Nil(t, r.Data)
	})
}

func TestSchema(t *testing.T) {
	sb, err := users.NewSchema(zap.NewNop(), users.NewServer())
	require.NoError(t, err)

	require.Equal(t, "users", sb.Options()["service"])

	out, err := sb.Call("nodeTypes")
	require.NoError(t, err)
	require.Equal(t, []string{"User", "Group"}, out[0])

	result, err := introspection.Inspect(sb)
	require.NoError(t, err)

	node, ok := result.Type("Node")
	require.True(t, ok)
	require.Equal(t, "INTERFACE", node.Kind)
	var possible []string
	for _, p := range node.PossibleTypes {
		possible = append(possible, p.Name)
	}
	sort.Strings(possible)
	require.Equal(t, []string{"Group", "User"}, possible)

	user, ok := result.Type("User")
	require.True(t, ok)
	require.Equal(t, "A user of the system.", user.Description)
	for _, f := range user.Fields {
		if f.Name == "age" {
			require.True(t, f.IsDeprecated)
			require.Equal(t, "Use birthDate", *f.DeprecationReason)
		}
	}

	sdl, err := sb.PrintSchema()
	require.NoError(t, err)
	require.Contains(t, sdl, "scalar Email")
	require.Contains(t, sdl, "scalar DateTime")
	require.NotContains(t, sdl, "scalar Timestamp")
}

func TestValueSources(t *testing.T) {
	sb, err := users.NewSchema(zap.NewNop(), users.NewServer())
	require.NoError(t, err)

	_, err = sb.AddQuery("plainUser", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type: "User",
			Resolve: func(graphql.ResolveParams) (interface{}, error) {
				return users.User{ID: "u1", Name: "John Doe", Email: "john@example.com"}, nil
			},
		}
	})
	require.NoError(t, err)
	_, err = sb.AddQuery("plainGroup", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type: "Group",
			Resolve: func(graphql.ResolveParams) (interface{}, error) {
				return users.Group{ID: "g1", Name: "admins", Members: []string{"u1"}}, nil
			},
		}
	})
	require.NoError(t, err)

	schema, err := sb.GenerateSchema()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ plainUser { name groups { name } } plainGroup { members { name } } }`,
	})
	require.Empty(t, result.Errors)
	if diff := pretty.Compare(result.Data, map[string]interface{}{
		"plainUser": map[string]interface{}{
			"name":   "John Doe",
			"groups": []interface{}{map[string]interface{}{"name": "admins"}},
		},
		"plainGroup": map[string]interface{}{
			"members": []interface{}{map[string]interface{}{"name": "John Doe"}},
		},
	}); diff != "" {
		t.Errorf("unexpected result (-got +want):\n%s", diff)
	}
}
