package schemabuilder

import (
	"time"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/graphql-go/graphql"
	gqlast "github.com/graphql-go/graphql/language/ast"
)

// builtinScalars are the scalars defined by the GraphQL specification.
var builtinScalars = map[string]*graphql.Scalar{
	"Int":     graphql.Int,
	"Float":   graphql.Float,
	"String":  graphql.String,
	"Boolean": graphql.Boolean,
	"ID":      graphql.ID,
}

// DateTime is an RFC 3339 date and time, serialized from time.Time.
var DateTime = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "An RFC 3339 date and time.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.Format(time.RFC3339Nano)
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.Format(time.RFC3339Nano)
		case *timestamp.Timestamp:
			if v == nil {
				return nil
			}
			return v.AsTime().Format(time.RFC3339Nano)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		return t
	},
	ParseLiteral: func(valueAST gqlast.Value) interface{} {
		v, ok := valueAST.(*gqlast.StringValue)
		if !ok {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, v.Value)
		if err != nil {
			return nil
		}
		return t
	},
})

// Timestamp is a protobuf timestamp, serialized as an RFC 3339 string.
var Timestamp = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Timestamp",
	Description: "A protobuf Timestamp, serialized as an RFC 3339 string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case *timestamp.Timestamp:
			if v == nil {
				return nil
			}
			return v.AsTime().Format(time.RFC3339Nano)
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseTimestamp(s)
	},
	ParseLiteral: func(valueAST gqlast.Value) interface{} {
		v, ok := valueAST.(*gqlast.StringValue)
		if !ok {
			return nil
		}
		return parseTimestamp(v.Value)
	},
})

// Duration is a protobuf duration, serialized in time.Duration notation ("1h30m").
var Duration = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Duration",
	Description: "A protobuf Duration, serialized like \"1h30m0s\".",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case *duration.Duration:
			if v == nil {
				return nil
			}
			return v.AsDuration().String()
		case time.Duration:
			return v.String()
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseDuration(s)
	},
	ParseLiteral: func(valueAST gqlast.Value) interface{} {
		v, ok := valueAST.(*gqlast.StringValue)
		if !ok {
			return nil
		}
		return parseDuration(v.Value)
	},
})

func parseTimestamp(s string) interface{} {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &timestamp.Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func parseDuration(s string) interface{} {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil
	}
	return &duration.Duration{Seconds: int64(d / time.Second), Nanos: int32(d % time.Second)}
}

// defaultScalars returns the scalars every schema starts with.
func defaultScalars() *ordered[*graphql.Scalar] {
	scalars := newOrdered[*graphql.Scalar]()
	for _, name := range []string{"Int", "Float", "String", "Boolean", "ID"} {
		scalars.set(name, builtinScalars[name])
	}
	scalars.set(DateTime.Name(), DateTime)
	scalars.set(Timestamp.Name(), Timestamp)
	scalars.set(Duration.Name(), Duration)
	return scalars
}
