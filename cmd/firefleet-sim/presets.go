package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/sweep"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List region presets and built-in studies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPresets(cmd.OutOrStdout())
	},
}

func listPresets(w io.Writer) error {
	fmt.Fprintln(w, "Region presets:")
	for _, name := range config.PresetNames() {
		r, err := config.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-10s %-14s base leg %5.1f NM, reservoir leg %5.1f NM\n",
			name, r.Name, r.LegBaseNM, r.LegReservoirNM)
	}
	fmt.Fprintln(w, "Built-in studies:")
	plans := sweep.BuiltIn()
	for _, name := range sweep.Names() {
		fmt.Fprintf(w, "  %-16s %s\n", name, plans[name].Description)
	}
	return nil
}
