package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// newTablesCmd creates the tables subcommand
func newTablesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <connection>",
		Short: "Print the tables and columns of a connection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, _, err := g.openNamed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer core.Close()

			catalog, err := core.Connections.Tables(cmd.Context())
			if err != nil {
				return err
			}
			if catalog == nil {
				return errors.New("introspection failed, see log for details")
			}
			return writeJSON(cmd.OutOrStdout(), catalog)
		},
	}
}
