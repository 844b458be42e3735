package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.appointy.com/graysql"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the schema over HTTP, resolving root fields to their values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		s, err := loadSchema(logger)
		if err != nil {
			return err
		}
		schema, err := s.GenerateSchema()
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		mux.Handle("/graphql", graysql.HTTPHandler(schema, graysql.WithMiddlewares(logRequests(logger))))
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			logger.Info("serving", zap.String("addr", serveAddr), zap.String("file", definitionFile))
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// logRequests logs every executed operation.
func logRequests(logger *zap.Logger) graysql.MiddlewareFunc {
	return func(next graysql.HandlerFunc) graysql.HandlerFunc {
		return func(ctx context.Context, params graphql.Params) *graphql.Result {
			start := time.Now()
			result := next(ctx, params)
			logger.Debug("request",
				zap.String("operation", params.OperationName),
				zap.Int("errors", len(result.Errors)),
				zap.Duration("took", time.Since(start)),
			)
			return result
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
