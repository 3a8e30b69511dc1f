package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hchiang/mk66clk/pkg"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "clkplan",
		Short: "Inspect MK66 clock reconfiguration plans",
		Long: "clkplan drives the MK66 clock driver against a simulated device and\n" +
			"prints the transitions, divider settings, and run-mode changes a\n" +
			"requested configuration would perform on real silicon.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("log level %q: %w", logLevel, err)
			}
			pkg.SetLogLevel(level)
			switch logFormat {
			case "text":
				pkg.SetLogFormat(pkg.LogFormatText)
			case "json":
				pkg.SetLogFormat(pkg.LogFormatJSON)
			default:
				return fmt.Errorf("log format %q", logFormat)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
