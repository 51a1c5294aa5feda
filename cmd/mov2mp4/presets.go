package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zinojeng/mov2mp4/internal/batch"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the quality presets",
	Long:  "Show each quality preset with its CRF value and encoder speed. Lower CRF means higher quality and a larger file.",
	Args:  cobra.NoArgs,
	Run:   runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, _ []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCRF\tSPEED")
	for _, p := range batch.Presets() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p, p.CRF(), p.Speed())
	}
	w.Flush()
}
