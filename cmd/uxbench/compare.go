package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uxbench/uxbench/internal/format"
	"github.com/uxbench/uxbench/internal/report"
)

func newCompareCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "compare [file1] [file2] ...",
		Short: "Compare multiple benchmark recordings",
		Long:  `Compare efficiency metrics between two or more product recordings.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := report.LoadAll(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "table":
				fmt.Fprint(out, format.RenderTable(reports, time.Now()))
			case "markdown", "md":
				fmt.Fprint(out, format.GenerateMarkdownTable(reports, time.Now()))
			case "csv":
				csv, err := format.GenerateCSV(reports)
				if err != nil {
					return err
				}
				fmt.Fprint(out, csv)
			default:
				return fmt.Errorf("unknown format %q (want table, markdown or csv)", outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format: table, markdown or csv")
	return cmd
}
