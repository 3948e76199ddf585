package format

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/uxbench/uxbench/internal/report"
)

// GenerateCSV creates a CSV formatted string for the comparison results.
func GenerateCSV(reports []*report.Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"Metric"}
	task := []string{"Task"}
	for _, r := range reports {
		header = append(header, ColumnLabel(r))
		task = append(task, r.Metadata.Task)
	}
	rows := [][]string{header, task}

	for _, def := range MetricRegistry {
		row := []string{def.Label}
		for _, r := range reports {
			row = append(row, strconv.FormatFloat(def.Extractor(r.Metrics), 'f', 2, 64))
		}
		rows = append(rows, row)
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return sb.String(), nil
}
