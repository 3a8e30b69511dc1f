package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hchiang/mk66clk/mcg"
)

var freqsCmd = &cobra.Command{
	Use:   "freqs",
	Short: "Print the supported PLL and FLL output frequencies",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "PLL (PEE/PBE), MHz:")
		for _, mhz := range mcg.SupportedPLLFrequencies() {
			fmt.Fprintf(out, "  %d\n", mhz)
		}
		fmt.Fprintln(out, "FLL (FEI/FEE), MHz:")
		for _, mhz := range mcg.SupportedFLLFrequencies() {
			fmt.Fprintf(out, "  %d\n", mhz)
		}
	},
}

func init() {
	rootCmd.AddCommand(freqsCmd)
}
