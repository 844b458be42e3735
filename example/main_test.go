package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.appointy.com/graysql/example/users"
)

func TestPlayground(t *testing.T) {
	h, err := users.GetGraphqlServer(zap.NewNop())
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + "/graphql")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `endpoint: "/graphql"`)
}
