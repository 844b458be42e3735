package users

import (
	"net/http"

	"go.uber.org/zap"

	"go.appointy.com/graysql"
	"go.appointy.com/graysql/schemabuilder"
)

// NewSchema creates a schema with Extension installed on a fresh registry and
// registers the example on it.
func NewSchema(logger *zap.Logger, s *Server) (*schemabuilder.Schema, error) {
	r := schemabuilder.NewRegistry(schemabuilder.WithLogger(logger))
	if _, err := r.Use(Extension); err != nil {
		return nil, err
	}

	sb, err := r.NewSchema(nil)
	if err != nil {
		return nil, err
	}
	if err := RegisterSchema(sb, s); err != nil {
		return nil, err
	}
	return sb, nil
}

// GetGraphqlServer builds the schema and returns the handler serving it.
func GetGraphqlServer(logger *zap.Logger) (http.Handler, error) {
	sb, err := NewSchema(logger, NewServer())
	if err != nil {
		return nil, err
	}

	schema, err := sb.GenerateSchema()
	if err != nil {
		return nil, err
	}

	out, err := sb.Call("nodeTypes")
	if err != nil {
		return nil, err
	}
	logger.Info("schema ready",
		zap.Any("service", sb.Options()["service"]),
		zap.Strings("nodes", out[0].([]string)),
	)

	return graysql.HTTPHandler(schema), nil
}
