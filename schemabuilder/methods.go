package schemabuilder

import (
	"reflect"

	"go.appointy.com/graysql/gerrors"
)

var (
	schemaType = reflect.TypeOf(&Schema{})
	errType    = reflect.TypeOf((*error)(nil)).Elem()
)

// HasMethod reports whether an extension method called name was installed
// before s was created.
func (s *Schema) HasMethod(name string) bool {
	_, ok := s.methods[name]
	return ok
}

// Call invokes the extension method called name. If the method takes a *Schema
// first, s is passed there and args fill the remaining parameters. A last
// result of type error is returned as the error of Call rather than in the
// results.
//
// For example, with an extension installed as
//   schemabuilder.Use(schemabuilder.Extension{
//     "greet": func(s *schemabuilder.Schema, name string) string { return "hello " + name },
//   })
// a schema created afterwards can do
//   out, err := s.Call("greet", "ada") // out[0] == "hello ada"
func (s *Schema) Call(name string, args ...interface{}) ([]interface{}, error) {
	fn, ok := s.methods[name]
	if !ok {
		return nil, gerrors.New(gerrors.Reference, "unknown extension method %s", name)
	}
	typ := fn.Type()

	in := make([]reflect.Value, 0, len(args)+1)
	if typ.NumIn() > 0 && typ.In(0) == schemaType {
		in = append(in, reflect.ValueOf(s))
	}

	params := typ.NumIn() - len(in)
	if typ.IsVariadic() {
		if len(args) < params-1 {
			return nil, gerrors.New(gerrors.Type, "method %s takes at least %d arguments, got %d", name, params-1, len(args))
		}
	} else if len(args) != params {
		return nil, gerrors.New(gerrors.Type, "method %s takes %d arguments, got %d", name, params, len(args))
	}

	for _, arg := range args {
		j := len(in)
		var paramType reflect.Type
		if typ.IsVariadic() && j >= typ.NumIn()-1 {
			paramType = typ.In(typ.NumIn() - 1).Elem()
		} else {
			paramType = typ.In(j)
		}

		v, err := argValue(arg, paramType)
		if err != nil {
			return nil, err.WithPath(name)
		}
		in = append(in, v)
	}

	out := fn.Call(in)

	var callErr error
	if n := typ.NumOut(); n > 0 && typ.Out(n-1) == errType {
		if e := out[n-1]; !e.IsNil() {
			callErr = e.Interface().(error)
		}
		out = out[:n-1]
	}

	results := make([]interface{}, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, callErr
}

// argValue converts arg to a value of typ.
func argValue(arg interface{}, typ reflect.Type) (reflect.Value, *gerrors.Error) {
	if arg == nil {
		switch typ.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(typ), nil
		}
		return reflect.Value{}, gerrors.New(gerrors.Type, "cannot use nil as %s", typ)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}
	if isNumber(v.Kind()) && isNumber(typ.Kind()) {
		if c := v.Convert(typ); c.Convert(v.Type()).Interface() == v.Interface() && sameSign(v, c) {
			return c, nil
		}
		return reflect.Value{}, gerrors.New(gerrors.Type, "%v does not fit in %s", arg, typ)
	}
	return reflect.Value{}, gerrors.New(gerrors.Type, "cannot use %s as %s", v.Type(), typ)
}

// sameSign reports whether a converted number kept the sign of the original,
// which a round trip through a wrapped integer does not always show.
func sameSign(a, b reflect.Value) bool {
	return negative(a) == negative(b)
}

func negative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
