package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/gridfeed/config"
	"github.com/kilianp07/gridfeed/core/model"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Inspect the static zone configuration",
}

var neighboursCmd = &cobra.Command{
	Use:   "neighbours <zone>",
	Short: "List the zones sharing an exchange with a zone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zones, err := config.LoadZones(cfg.Zones)
		if err != nil {
			return err
		}
		for _, n := range zones.Neighbours(model.ZoneKey(args[0])) {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var emissionFactorsCmd = &cobra.Command{
	Use:   "emission-factors <zone>",
	Short: "Show the emission factors applying to a zone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zones, err := config.LoadZones(cfg.Zones)
		if err != nil {
			return err
		}
		factors := zones.EmissionFactors(model.ZoneKey(args[0]))
		modes := make([]string, 0, len(factors))
		for m := range factors {
			modes = append(modes, m)
		}
		sort.Strings(modes)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"mode", "gCO2eq/kWh"})
		for _, m := range modes {
			t.AppendRow(table.Row{m, factors[m]})
		}
		t.Render()
		return nil
	},
}

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the configured parser bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		zones, err := config.LoadZones(cfg.Zones)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"key", "kind", "parser"})
		for _, b := range zones.Bindings() {
			t.AppendRow(table.Row{b.Key, b.Kind, b.Ref})
		}
		t.Render()
		return nil
	},
}

func init() {
	zonesCmd.AddCommand(neighboursCmd, emissionFactorsCmd, parsersCmd)
	rootCmd.AddCommand(zonesCmd)
}
