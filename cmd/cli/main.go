package main

import (
	"fmt"
	"os"

	"pspicdash/internal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "pspic-cli",
		Short:         "Inspect and export the PSPIC dashboards from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if logLevel != "" {
				internal.DefaultLogger.SetLevel(internal.ParseLogLevel(logLevel))
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")

	rootCmd.AddCommand(
		newSheetsCmd(),
		newFetchCmd(),
		newAggregateCmd(),
		newExportCmd(),
	)
	return rootCmd
}
