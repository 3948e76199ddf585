package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/uxbench/uxbench/internal/report"
)

// GenerateMarkdownTable creates a Markdown table for the comparison results.
// The best value in each row is bold.
func GenerateMarkdownTable(reports []*report.Report, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# UX Bench Comparison Report\n")
	sb.WriteString(fmt.Sprintf("Generated on: %s\n\n", generatedAt.Format(time.RFC1123)))

	sb.WriteString("| Metric |")
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf(" %s |", ColumnLabel(r)))
	}
	sb.WriteString("\n")

	sb.WriteString("|---|")
	for range reports {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	sb.WriteString("| **Task** |")
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf(" %s |", r.Metadata.Task))
	}
	sb.WriteString("\n")

	for _, def := range SummaryMetrics() {
		best := Best(def, reports)
		sb.WriteString(fmt.Sprintf("| %s |", def.Label))
		for _, r := range reports {
			val := def.Extractor(r.Metrics)
			valStr := fmt.Sprintf("%.2f", val)
			if val == best {
				valStr = "**" + valStr + "**"
			}
			sb.WriteString(fmt.Sprintf(" %s |", valStr))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
