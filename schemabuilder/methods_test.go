package schemabuilder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

func methodSchema(t *testing.T) *schemabuilder.Schema {
	t.Helper()

	r := schemabuilder.NewRegistry()
	_, err := r.Use(schemabuilder.Extension{
		"greet": func(name string) string { return "hello " + name },
		"typeCount": func(s *schemabuilder.Schema) int {
			return len(s.Types())
		},
		"sum": func(xs ...int) int {
			total := 0
			for _, x := range xs {
				total += x
			}
			return total
		},
		"double": func(n int) int { return n * 2 },
		"small":  func(n int8) int8 { return n },
		"count":  func(n uint) uint { return n },
		"join":   func(sep string, parts ...string) string { return strings.Join(parts, sep) },
		"check": func(ok bool) (string, error) {
			if !ok {
				return "", errors.New("not ok")
			}
			return "ok", nil
		},
		"describe": func(v interface{}, m map[string]int) (string, int) {
			if v == nil {
				return "nil", len(m)
			}
			return "value", len(m)
		},
	})
	require.NoError(t, err)

	s, err := r.NewSchema(nil)
	require.NoError(t, err)
	return s
}

func TestCall(t *testing.T) {
	s := methodSchema(t)

	require.True(t, s.HasMethod("greet"))
	require.False(t, s.HasMethod("missing"))

	out, err := s.Call("greet", "ada")
	require.NoError(t, err)
	require.Equal(t, []interface{}{"hello ada"}, out)

	_, err = s.RegisterType(userType())
	require.NoError(t, err)
	out, err = s.Call("typeCount")
	require.NoError(t, err)
	require.Equal(t, []interface{}{1}, out)

	out, err = s.Call("sum")
	require.NoError(t, err)
	require.Equal(t, []interface{}{0}, out)

	out, err = s.Call("sum", 1, int64(2), 3.0)
	require.NoError(t, err)
	require.Equal(t, []interface{}{6}, out)

	out, err = s.Call("join", "-", "a", "b")
	require.NoError(t, err)
	require.Equal(t, []interface{}{"a-b"}, out)

	out, err = s.Call("describe", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"nil", 0}, out)
}

func TestCallErrorResult(t *testing.T) {
	s := methodSchema(t)

	out, err := s.Call("check", true)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"ok"}, out)

	out, err = s.Call("check", false)
	require.EqualError(t, err, "not ok")
	require.Equal(t, []interface{}{""}, out)
}

func TestCallInvalid(t *testing.T) {
	s := methodSchema(t)

	_, err := s.Call("missing")
	require.True(t, gerrors.HasCode(err, gerrors.Reference), "got %v", err)

	_, err = s.Call("greet")
	require.True(t, gerrors.HasCode(err, gerrors.Type), "got %v", err)

	_, err = s.Call("greet", "a", "b")
	require.True(t, gerrors.HasCode(err, gerrors.Type), "got %v", err)

	_, err = s.Call("greet", 42)
	require.True(t, gerrors.HasCode(err, gerrors.Type), "got %v", err)

	_, err = s.Call("check", nil)
	require.True(t, gerrors.HasCode(err, gerrors.Type), "got %v", err)

	_, err = s.Call("join")
	require.True(t, gerrors.HasCode(err, gerrors.Type), "got %v", err)
}

func TestCallNumberConversion(t *testing.T) {
	s := methodSchema(t)

	out, err := s.Call("double", 2.0)
	require.NoError(t, err)
	require.Equal(t, []interface{}{4}, out)

	out, err = s.Call("small", int64(-128))
	require.NoError(t, err)
	require.Equal(t, []interface{}{int8(-128)}, out)

	out, err = s.Call("count", int32(7))
	require.NoError(t, err)
	require.Equal(t, []interface{}{uint(7)}, out)

	for _, c := range []struct {
		method string
		arg    interface{}
	}{
		{"double", 1.9},
		{"double", uint64(1 << 63)},
		{"small", 300},
		{"count", -1},
		{"sum", 1.5},
	} {
		_, err := s.Call(c.method, c.arg)
		require.True(t, gerrors.HasCode(err, gerrors.Type), "%s(%v): got %v", c.method, c.arg, err)
	}
}
