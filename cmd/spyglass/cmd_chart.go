package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newChartCmd creates the chart subcommand
func newChartCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chart <connection> <index>",
		Short: "Print the datapoints of a saved chart as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chartIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("chart index %q: %w", args[1], err)
			}

			core, index, err := g.openNamed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer core.Close()

			profile, _ := core.Config.Profile(index)
			if chartIndex < 0 || chartIndex >= len(profile.Charts) {
				return fmt.Errorf("connection %q has %d charts, no chart %d", profile.Name, len(profile.Charts), chartIndex)
			}

			series, err := core.Charts.Render(cmd.Context(), chartIndex, profile.Charts[chartIndex])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), series)
		},
	}
}
