package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"go.appointy.com/graysql/example/users"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	h, err := users.GetGraphqlServer(logger)
	if err != nil {
		logger.Fatal("failed to build the GraphQL server", zap.Error(err))
	}

	// POST for queries and mutations, GET for the playground.
	http.Handle("/graphql", h)

	logger.Info("server running", zap.String("addr", ":8080"), zap.String("playground", "http://localhost:8080/graphql"))
	if err := http.ListenAndServe(":8080", nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
