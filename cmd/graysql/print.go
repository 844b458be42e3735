package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the schema in the GraphQL schema definition language",
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
		sdl, err := s.PrintSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), sdl)
		return err
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
