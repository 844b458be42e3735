package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.appointy.com/graysql/introspection"
)

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Print the result of the introspection query as JSON",
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
		data, err := introspection.ComputeSchemaJSON(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(introspectCmd)
}
