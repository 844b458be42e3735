package graysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"go.appointy.com/graysql/gerrors"
)

// HandlerFunc executes a GraphQL request.
type HandlerFunc func(ctx context.Context, params graphql.Params) *graphql.Result

// MiddlewareFunc wraps the execution of every request.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
	Playground  bool
	Title       string
}

// WithMiddlewares adds middlewares around execution. The first one is the
// outermost.
func WithMiddlewares(m ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, m...)
	}
}

// WithPlayground turns the playground served on GET requests on or off. It is
// on by default.
func WithPlayground(enabled bool) HandlerOption {
	return func(o *handlerOptions) {
		o.Playground = enabled
	}
}

// HTTPHandler implements the handler required for executing the graphql queries and mutations
// against a schema generated by schemabuilder.Schema.GenerateSchema. GET
// requests are answered with the playground.
func HTTPHandler(schema graphql.Schema, opts ...HandlerOption) http.Handler {
	o := handlerOptions{Playground: true, Title: "GraphQL Playground"}
	for _, opt := range opts {
		opt(&o)
	}

	h := &httpHandler{schema: schema}

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	if o.Playground {
		h.playground = playground(o.Title, "")
	}
	return h
}

type httpHandler struct {
	schema     graphql.Schema
	exec       HandlerFunc
	playground http.Handler
}

type httpPostBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type httpResponse struct {
	Data   interface{}      `json:"data"`
	Errors []*gerrors.Error `json:"errors"`
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse := func(value interface{}, errs []*gerrors.Error) {
		response := httpResponse{Data: value, Errors: errs}

		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}
	fail := func(err error) {
		writeResponse(nil, []*gerrors.Error{gerrors.ConvertError(err)})
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && h.playground != nil {
		h.playground.ServeHTTP(w, r)
		return
	}

	if r.Method != http.MethodPost {
		fail(errors.New("request must be a POST"))
		return
	}

	if r.Body == nil || r.Body == http.NoBody {
		fail(errors.New("request must include a query"))
		return
	}

	var params httpPostBody
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		fail(err)
		return
	}
	if params.Query == "" {
		fail(errors.New("request must include a query"))
		return
	}

	ctx := addVariables(r.Context(), params.Variables)
	result := h.exec(ctx, graphql.Params{
		Schema:         h.schema,
		RequestString:  params.Query,
		VariableValues: params.Variables,
		OperationName:  params.OperationName,
		Context:        ctx,
	})

	var errs []*gerrors.Error
	for _, fe := range result.Errors {
		errs = append(errs, convertFormattedError(fe))
	}
	writeResponse(result.Data, errs)
}

func (h *httpHandler) execute(ctx context.Context, params graphql.Params) *graphql.Result {
	return graphql.Do(params)
}

// convertFormattedError keeps the code of GraysQL errors returned by resolvers.
func convertFormattedError(fe gqlerrors.FormattedError) *gerrors.Error {
	orig := originalError(fe.OriginalError())

	e := &gerrors.Error{
		Message:    fe.Message,
		Extensions: gerrors.Extensions{Code: gerrors.Unknown},
		Paths:      []string{},
	}
	var ge *gerrors.Error
	if orig != nil && errors.As(orig, &ge) {
		e.Extensions.Code = ge.Code()
	}
	for _, p := range fe.Path {
		e.Paths = append(e.Paths, fmt.Sprint(p))
	}
	return e
}

// originalError digs the error returned by a resolver out of the engine
// wrappers.
func originalError(err error) error {
	for {
		switch e := err.(type) {
		case *gqlerrors.Error:
			if e.OriginalError == nil {
				return err
			}
			err = e.OriginalError
		case gqlerrors.FormattedError:
			if e.OriginalError() == nil {
				return err
			}
			err = e.OriginalError()
		default:
			return err
		}
	}
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables is used to returns the variables received as part of the graphql request.
// This is intended to be used from within the middlewares.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}

	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}
