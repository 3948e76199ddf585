package format

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/uxbench/uxbench/internal/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(4)
)

type cell struct {
	content string
	style   lipgloss.Style
}

// RenderTable renders the comparison matrix for a terminal. Winning values
// are highlighted and marked with "*".
func RenderTable(reports []*report.Report, now time.Time) string {
	var grid [][]cell

	header := []cell{{content: "Metric", style: lipgloss.NewStyle()}}
	task := []cell{{content: "Task", style: lipgloss.NewStyle()}}
	recorded := []cell{{content: "Recorded", style: mutedStyle}}
	for _, r := range reports {
		header = append(header, cell{content: ColumnLabel(r), style: headerStyle})
		task = append(task, cell{content: r.Metadata.Task, style: lipgloss.NewStyle()})
		recorded = append(recorded, cell{content: recordedAgo(r, now), style: mutedStyle})
	}
	grid = append(grid, header, task, recorded, nil)

	for _, def := range SummaryMetrics() {
		best := Best(def, reports)
		row := []cell{{content: def.Label, style: lipgloss.NewStyle()}}
		for _, r := range reports {
			val := def.Extractor(r.Metrics)
			c := cell{content: FormatValue(val), style: lipgloss.NewStyle()}
			if val == best {
				c.content += "*"
				c.style = winnerStyle
			}
			row = append(row, c)
		}
		grid = append(grid, row)
	}

	widths := make([]int, len(reports)+1)
	for _, row := range grid {
		for i, c := range row {
			if w := lipgloss.Width(c.content); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(titleStyle.Render(" Comparison Matrix "))
	s.WriteString("\n\n")
	for _, row := range grid {
		if row == nil {
			s.WriteString("\n")
			continue
		}
		for i, c := range row {
			s.WriteString(c.style.Inherit(cellStyle).Width(widths[i]).Render(c.content))
		}
		s.WriteString("\n")
	}
	return s.String()
}

// FormatValue prints whole numbers with thousands separators and everything
// else with two decimals.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

func recordedAgo(r *report.Report, now time.Time) string {
	if r.Metadata.Timestamp.IsZero() {
		return "-"
	}
	return humanize.RelTime(r.Metadata.Timestamp, now, "ago", "from now")
}
