package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spyglass/internal/app"
	"spyglass/internal/service"
)

// newTestCmd creates the test subcommand
func newTestCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test <connection>",
		Short: "Probe a connection and print its latency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger()
			core := app.NewServices(log, g.configPath, service.NopEmitter{})
			defer core.Close()

			index, ok := core.ProfileByName(args[0])
			if !ok {
				return fmt.Errorf("connection %q: %w", args[0], service.ErrNotFound)
			}
			profile, _ := core.Config.Profile(index)

			password := g.password
			if password == "" && profile.Password != nil {
				password = *profile.Password
			}
			latency := core.Tester.Test(cmd.Context(), profile, password)
			if latency == nil {
				return errors.New("connection failed, see log for details")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok in %.1f ms\n", profile.Name, *latency)
			return nil
		},
	}
}
