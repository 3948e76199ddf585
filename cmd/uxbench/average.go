package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/uxbench/uxbench/internal/average"
	"github.com/uxbench/uxbench/internal/report"
)

func newAverageCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "average [file1] [file2] ...",
		Short: "Average repeated runs of the same task into one report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := report.LoadAll(args)
			if err != nil {
				return err
			}

			merged, err := average.Reports(reports)
			if errors.Is(err, average.ErrNoValidReports) {
				log.Warn().Int("files", len(args)).Msg("No valid reports to average, nothing written")
				return fmt.Errorf("averaging %d files: %w", len(args), err)
			}
			if err != nil {
				return err
			}

			if err := report.Write(output, merged); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			log.Info().
				Str("output", output).
				Int("runs", *merged.Metadata.RunCount).
				Float64("composite_score", merged.Metrics.CompositeScore).
				Msg("Averaged report written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "averaged.json", "path of the averaged report")
	return cmd
}
