package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "uxbench",
		Short: "UX Bench - Analyze and compare interaction efficiency",
		Long: `UX Bench compares and averages benchmark reports produced by the
UX Bench recorder, allowing head-to-head comparisons of product efficiency.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newAverageCmd())
	return root
}
