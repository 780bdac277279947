package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RMahshie/faultscope/internal/diagnostics"
	"github.com/RMahshie/faultscope/internal/processing"
)

func main() {
	diagnostics.Init()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// parse failures have already been reported
		if processing.KindOf(err) == "" {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	rootCmd := &cobra.Command{
		Use:           "faultscope",
		Short:         "COMTRADE recording inspection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			diagnostics.SetLevel(level)
		},
	}
	rootCmd.PersistentFlags().StringVar(&level, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(newParseCmd())

	return rootCmd
}
