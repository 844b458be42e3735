package schemabuilder

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/graphql-go/graphql"
	"github.com/iancoleman/strcase"

	"go.appointy.com/graysql/gerrors"
)

// graphQLFieldInfo contains basic struct field information related to GraphQL.
type graphQLFieldInfo struct {
	// Skipped indicates that this field should not be included in GraphQL.
	Skipped bool

	// Name is the GraphQL field name that should be exposed for this field.
	Name string

	// ID marks a string or integer field as the ID scalar.
	ID bool

	// DeprecationReason marks the field deprecated when not empty.
	DeprecationReason string

	Description string
}

// parseGraphQLFieldInfo parses a struct field and returns a struct with the
// parsed information about the field (tag info, name, etc). The graphql tag
// wins over the json tag, e.g.
//   Age int `graphql:"age,deprecated=Use birthDate,description=Age in years"`
func parseGraphQLFieldInfo(field reflect.StructField) *graphQLFieldInfo {
	if field.PkgPath != "" {
		return &graphQLFieldInfo{Skipped: true}
	}

	tag := field.Tag.Get("graphql")
	if tag == "" {
		tag = field.Tag.Get("json")
	}
	tags := strings.Split(tag, ",")
	name := strings.TrimSpace(tags[0])
	if name == "-" {
		return &graphQLFieldInfo{Skipped: true}
	}
	if name == "" {
		name = strcase.ToLowerCamel(field.Name)
	}

	info := &graphQLFieldInfo{Name: name}
	for _, opt := range tags[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case strings.HasPrefix(opt, "deprecated="):
			info.DeprecationReason = strings.TrimPrefix(opt, "deprecated=")
		case strings.HasPrefix(opt, "description="):
			info.Description = strings.TrimPrefix(opt, "description=")
		case opt == "id":
			info.ID = true
		}
	}
	return info
}

// Common Types that we will need to perform type assertions against.
var (
	timeType      = reflect.TypeOf(time.Time{})
	timestampType = reflect.TypeOf((*timestamp.Timestamp)(nil)).Elem()
	durationType  = reflect.TypeOf((*duration.Duration)(nil)).Elem()
)

// FieldsOf derives Fields from the exported fields of a struct, or a pointer to
// one. Every field gets a resolver reading the struct field, so values of the
// struct can be returned from resolvers directly.
//
// Scalar fields that are not pointers are non null. A nested struct refers to
// the type named like the Go type, which must be registered before the schema
// is generated.
func FieldsOf(v interface{}) (Fields, error) {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil, gerrors.New(gerrors.Type, "fieldsOf expects a struct, got nil")
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, gerrors.New(gerrors.Type, "fieldsOf expects a struct, got %s", typ)
	}

	fields := make(Fields)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Anonymous {
			continue
		}
		info := parseGraphQLFieldInfo(sf)
		if info.Skipped {
			continue
		}
		if _, ok := fields[info.Name]; ok {
			return nil, gerrors.New(gerrors.Conflict, "bad type %s: duplicate field %s", typ, info.Name)
		}

		ref, err := typeRefOf(sf.Type, info.ID)
		if err != nil {
			return nil, gerrors.Wrap(err, gerrors.Type, "bad type %s: field %s", typ, sf.Name)
		}
		fields[info.Name] = &Field{
			Type:              ref,
			Description:       info.Description,
			DeprecationReason: info.DeprecationReason,
			Resolve:           structFieldResolver(sf.Index),
		}
	}
	return fields, nil
}

// typeRefOf returns the type reference of a Go type.
func typeRefOf(typ reflect.Type, id bool) (string, error) {
	nullable := false
	if typ.Kind() == reflect.Ptr {
		nullable = true
		typ = typ.Elem()
	}

	var ref string
	switch {
	case typ == timeType:
		ref = DateTime.Name()
	case typ == timestampType:
		ref = Timestamp.Name()
	case typ == durationType:
		ref = Duration.Name()
	case id:
		switch typ.Kind() {
		case reflect.String, reflect.Int, reflect.Int32, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
			ref = "ID"
		default:
			return "", fmt.Errorf("%s can't be an ID", typ)
		}
	default:
		switch typ.Kind() {
		case reflect.Bool:
			ref = "Boolean"
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			ref = "Int"
		case reflect.Float32, reflect.Float64:
			ref = "Float"
		case reflect.String:
			ref = "String"
		case reflect.Slice, reflect.Array:
			elem, err := typeRefOf(typ.Elem(), false)
			if err != nil {
				return "", err
			}
			// slices are nil-able.
			return "[" + elem + "]", nil
		case reflect.Struct:
			if typ.Name() == "" {
				return "", fmt.Errorf("anonymous struct %s", typ)
			}
			// nested objects are nullable so resolvers can omit them.
			return typ.Name(), nil
		default:
			return "", fmt.Errorf("unsupported kind %s", typ.Kind())
		}
	}

	if !nullable {
		ref += "!"
	}
	return ref, nil
}

// structFieldResolver reads the field at index from a struct or struct pointer
// source.
func structFieldResolver(index []int) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v := reflect.ValueOf(p.Source)
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("expected a struct source, got %T", p.Source)
		}
		f := v.FieldByIndex(index)
		if f.Kind() == reflect.Ptr && f.IsNil() {
			return nil, nil
		}
		return f.Interface(), nil
	}
}
