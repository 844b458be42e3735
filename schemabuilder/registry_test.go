package schemabuilder_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

func TestUseOnInit(t *testing.T) {
	r := schemabuilder.NewRegistry()
	_, err := r.Use(schemabuilder.Extension{
		schemabuilder.OnInit: func(o schemabuilder.Options) {
			n, _ := o["n"].(int)
			o["n"] = n + 1
		},
	})
	require.NoError(t, err)

	s, err := r.NewSchema(schemabuilder.Options{"n": 1})
	require.NoError(t, err)
	require.Equal(t, 2, s.Options()["n"])

	// Every construction runs the listener once, on its own options.
	s, err = r.NewSchema(nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Options()["n"])
}

func TestUseListenerOrder(t *testing.T) {
	r := schemabuilder.NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		name := name
		_, err := r.Use(schemabuilder.Extension{
			schemabuilder.OnInit: func(o schemabuilder.Options) error {
				seen, _ := o["seen"].(string)
				o["seen"] = seen + name
				return nil
			},
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, r.Listeners())

	s, err := r.NewSchema(nil)
	require.NoError(t, err)
	require.Equal(t, "abc", s.Options()["seen"])
}

func TestUseReturnsRegistry(t *testing.T) {
	r := schemabuilder.NewRegistry()
	got, err := r.Use(schemabuilder.Extension{"noop": func() {}})
	require.NoError(t, err)
	require.Same(t, r, got)
}

func TestUseEmpty(t *testing.T) {
	r := schemabuilder.NewRegistry()
	got, err := r.Use(schemabuilder.Extension{})
	require.NoError(t, err)
	require.Same(t, r, got)
	require.Empty(t, r.Methods())
	require.Equal(t, 0, r.Listeners())
}

func TestUseInvalid(t *testing.T) {
	cases := []struct {
		name string
		ext  schemabuilder.Extension
	}{
		{"nil", nil},
		{"not a function", schemabuilder.Extension{"answer": 42}},
		{"nil entry", schemabuilder.Extension{"nothing": nil}},
		{"nil function", schemabuilder.Extension{"nothing": (func())(nil)}},
		{"unnamed", schemabuilder.Extension{"": func() {}}},
		{"bad listener", schemabuilder.Extension{schemabuilder.OnInit: func(int) {}}},
		{"listener not a function", schemabuilder.Extension{schemabuilder.OnInit: "init"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := schemabuilder.NewRegistry()
			_, err := r.Use(c.ext)
			require.Error(t, err)
			require.True(t, gerrors.HasCode(err, gerrors.Configuration), "got %v", err)
			require.Contains(t, err.Error(), gerrors.Prefix)
		})
	}
}

func TestUseAllOrNothing(t *testing.T) {
	r := schemabuilder.NewRegistry()
	_, err := r.Use(schemabuilder.Extension{
		schemabuilder.OnInit: func(schemabuilder.Options) {},
		"good":               func() {},
		"zzz":                "not a function",
	})
	require.Error(t, err)
	require.Empty(t, r.Methods())
	require.Equal(t, 0, r.Listeners())
}

func TestUseReplacesMethods(t *testing.T) {
	r := schemabuilder.NewRegistry()
	_, err := r.Use(schemabuilder.Extension{"version": func() int { return 1 }})
	require.NoError(t, err)
	_, err = r.Use(schemabuilder.Extension{"version": func() int { return 2 }, "name": func() string { return "x" }})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "version"}, r.Methods())

	s, err := r.NewSchema(nil)
	require.NoError(t, err)
	out, err := s.Call("version")
	require.NoError(t, err)
	require.Equal(t, []interface{}{2}, out)
}

func TestSchemaSnapshotsExtensions(t *testing.T) {
	r := schemabuilder.NewRegistry()
	before, err := r.NewSchema(nil)
	require.NoError(t, err)

	_, err = r.Use(schemabuilder.Extension{"late": func() {}})
	require.NoError(t, err)

	after, err := r.NewSchema(nil)
	require.NoError(t, err)

	require.False(t, before.HasMethod("late"))
	require.True(t, after.HasMethod("late"))
}

func TestOnInitError(t *testing.T) {
	r := schemabuilder.NewRegistry()
	_, err := r.Use(schemabuilder.Extension{
		schemabuilder.OnInit: func(o schemabuilder.Options) error {
			if _, ok := o["required"]; !ok {
				return errors.New("missing required option")
			}
			return nil
		},
	})
	require.NoError(t, err)

	_, err = r.NewSchema(nil)
	require.Error(t, err)
	require.True(t, gerrors.HasCode(err, gerrors.Configuration))
	require.Contains(t, err.Error(), "missing required option")

	_, err = r.NewSchema(schemabuilder.Options{"required": true})
	require.NoError(t, err)
}

func TestNewSchemaFrom(t *testing.T) {
	r := schemabuilder.NewRegistry()

	s, err := r.NewSchemaFrom(nil)
	require.NoError(t, err)
	require.NotNil(t, s.Options())

	s, err = r.NewSchemaFrom(map[string]interface{}{"a": 1})
	require.NoError(t, err)
	require.Equal(t, 1, s.Options()["a"])

	s, err = r.NewSchemaFrom(map[interface{}]interface{}{"b": 2})
	require.NoError(t, err)
	require.Equal(t, 2, s.Options()["b"])

	for _, bad := range []interface{}{"options", 42, []interface{}{1}, map[interface{}]interface{}{1: "x"}} {
		_, err := r.NewSchemaFrom(bad)
		require.Error(t, err, "%v", bad)
		require.True(t, gerrors.HasCode(err, gerrors.Configuration))
	}
}

func TestNewSchemaKeepsOptions(t *testing.T) {
	r := schemabuilder.NewRegistry()
	opts := schemabuilder.Options{"a": 1}
	s, err := r.NewSchema(opts)
	require.NoError(t, err)

	opts["b"] = 2
	require.Equal(t, 2, s.Options()["b"])
	require.Same(t, r, s.Registry())
}

func TestSchemaIDs(t *testing.T) {
	r := schemabuilder.NewRegistry()
	a, err := r.NewSchema(nil)
	require.NoError(t, err)
	b, err := r.NewSchema(nil)
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestDefaultRegistry(t *testing.T) {
	_, err := schemabuilder.Use(schemabuilder.Extension{"defaultRegistryProbe": func() string { return "probe" }})
	require.NoError(t, err)

	s, err := schemabuilder.NewSchema(nil)
	require.NoError(t, err)
	require.Same(t, schemabuilder.Default(), s.Registry())

	out, err := s.Call("defaultRegistryProbe")
	require.NoError(t, err)
	require.Equal(t, []interface{}{"probe"}, out)
}

func TestRegistryLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := schemabuilder.NewRegistry(schemabuilder.WithLogger(zap.New(core)))

	_, err := r.Use(schemabuilder.Extension{"noop": func() {}})
	require.NoError(t, err)
	s, err := r.NewSchema(nil)
	require.NoError(t, err)
	_, err = s.AddQuery("ping", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{Type: "String"}
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("extension installed").Len())
	require.Equal(t, 1, logs.FilterMessage("schema created").Len())
	entries := logs.FilterMessage("query added").All()
	require.Len(t, entries, 1)
	require.Equal(t, s.ID().String(), entries[0].ContextMap()["schema"])
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := schemabuilder.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := r.Use(schemabuilder.Extension{fmt.Sprintf("m%d", i): func() int { return i }})
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := r.NewSchema(nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, r.Methods(), 20)
}
