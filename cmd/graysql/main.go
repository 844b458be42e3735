// Command graysql prints, introspects and serves schemas described in YAML
// definition files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.appointy.com/graysql/internal/definition"
	"go.appointy.com/graysql/schemabuilder"
)

var (
	definitionFile string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:           "graysql",
	Short:         "Build GraphQL schemas from definition files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&definitionFile, "file", "f", "schema.yaml", "Schema definition file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log registrations and generation")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadSchema reads the definition file and registers it on a new schema.
func loadSchema(logger *zap.Logger) (*schemabuilder.Schema, error) {
	f, err := definition.LoadFile(definitionFile)
	if err != nil {
		return nil, err
	}
	return f.NewSchema(schemabuilder.NewRegistry(schemabuilder.WithLogger(logger)))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
