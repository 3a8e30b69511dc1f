package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hchiang/mk66clk/clock"
)

var (
	dividersFreq uint32

	dividersCmd = &cobra.Command{
		Use:   "dividers",
		Short: "Print the bus and flash dividers for a core frequency",
		RunE: func(cmd *cobra.Command, args []string) error {
			coreHz := dividersFreq * 1_000_000
			if coreHz == 0 {
				return fmt.Errorf("core frequency required")
			}
			busDiv, flashDiv := clock.DividersFor(coreHz)
			fmt.Fprintf(cmd.OutOrStdout(),
				"core %d Hz: bus /%d = %d Hz, flash /%d = %d Hz\n",
				coreHz, busDiv, coreHz/busDiv, flashDiv, coreHz/flashDiv)
			return nil
		},
	}
)

func init() {
	dividersCmd.Flags().Uint32VarP(&dividersFreq, "freq", "f", 180, "core frequency in MHz")
	rootCmd.AddCommand(dividersCmd)
}
