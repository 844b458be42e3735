package definition_test

import (
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/internal/definition"
	"go.appointy.com/graysql/schemabuilder"
)

func TestLoadFile(t *testing.T) {
	f, err := definition.LoadFile("testdata/schema.yaml")
	require.NoError(t, err)

	require.Equal(t, map[string]interface{}{"name": "demo"}, f.Options)
	require.Len(t, f.Interfaces, 1)
	require.Len(t, f.Types, 1)
	require.Equal(t, []string{"Node"}, f.Types[0].Interfaces)
	require.Equal(t, "Use name", f.Types[0].Fields["nickname"].Deprecated)
	require.Equal(t, "Ada", f.Mutations["rename"].Args["name"].Default)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := definition.Load(strings.NewReader("typez: []\n"))
	require.True(t, gerrors.HasCode(err, gerrors.Configuration), "got %v", err)
}

func TestLoadEmpty(t *testing.T) {
	f, err := definition.Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, f.Types)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := definition.LoadFile("testdata/missing.yaml")
	require.Error(t, err)
}

func TestNewSchema(t *testing.T) {
	f, err := definition.LoadFile("testdata/schema.yaml")
	require.NoError(t, err)

	r := schemabuilder.NewRegistry()
	_, err = r.Use(schemabuilder.Extension{
		schemabuilder.OnInit: func(o schemabuilder.Options) { o["loaded"] = true },
	})
	require.NoError(t, err)

	s, err := f.NewSchema(r)
	require.NoError(t, err)
	require.Equal(t, "demo", s.Options()["name"])
	require.Equal(t, true, s.Options()["loaded"])
	require.Equal(t, []string{"node", "user"}, s.Queries())
	require.Equal(t, []string{"rename"}, s.Mutations())

	schema, err := s.GenerateSchema()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `{
			user(id: "1") { id name }
			node { __typename id ... on User { name } }
		}`,
	})
	require.Empty(t, result.Errors)

	want := map[string]interface{}{
		"user": map[string]interface{}{"id": "1", "name": "Ada"},
		"node": map[string]interface{}{"__typename": "User", "id": "1", "name": "Ada"},
	}
	if diff := pretty.Compare(result.Data, want); diff != "" {
		t.Errorf("unexpected result (-got +want):\n%s", diff)
	}
}

func TestNewSchemaBadOptions(t *testing.T) {
	f, err := definition.Load(strings.NewReader("options: [1, 2]\n"))
	require.NoError(t, err)

	_, err = f.NewSchema(schemabuilder.NewRegistry())
	require.True(t, gerrors.HasCode(err, gerrors.Configuration), "got %v", err)
}

func TestRegisterUnknownInterface(t *testing.T) {
	f, err := definition.Load(strings.NewReader(`
types:
  - name: User
    interfaces: [Ghost]
    fields:
      id: {type: ID!}
`))
	require.NoError(t, err)

	_, err = f.NewSchema(schemabuilder.NewRegistry())
	require.True(t, gerrors.HasCode(err, gerrors.Reference), "got %v", err)
}
