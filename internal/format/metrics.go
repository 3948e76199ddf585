package format

import "github.com/uxbench/uxbench/internal/report"

// MetricDef defines a single metric for use across all output formats.
type MetricDef struct {
	Label          string
	Extractor      func(report.Metrics) float64
	HigherIsBetter bool
	DetailOnly     bool // CSV only
}

// MetricRegistry lists the metrics shown in comparison outputs. Markdown and
// the terminal table use entries where DetailOnly is false.
var MetricRegistry = []MetricDef{
	{Label: "Composite Score", Extractor: func(m report.Metrics) float64 { return m.CompositeScore }},
	{Label: "Total Clicks", Extractor: func(m report.Metrics) float64 { return float64(m.ClickCount.Total) }},
	{Label: "Time on Task (ms)", Extractor: func(m report.Metrics) float64 { return float64(m.TimeOnTask.TotalMS) }},
	{Label: "Fitts Avg ID", Extractor: func(m report.Metrics) float64 { return m.Fitts.AverageID }},
	{Label: "Context Switches", Extractor: func(m report.Metrics) float64 { return float64(m.ContextSwitches.Total) }},
	{Label: "Shortcuts Used", Extractor: func(m report.Metrics) float64 { return float64(m.ShortcutCoverage.ShortcutsUsed) }, HigherIsBetter: true},
	{Label: "Scanning Dist (avg px)", Extractor: func(m report.Metrics) float64 { return m.ScanningDistance.AveragePx }},
	{Label: "Scroll Dist (px)", Extractor: func(m report.Metrics) float64 { return m.ScrollDistance.TotalPx }},
	{Label: "Mouse Travel (px)", Extractor: func(m report.Metrics) float64 { return m.MouseTravel.TotalPx }},
	{Label: "Typing Ratio", Extractor: func(m report.Metrics) float64 { return m.TypingRatio.Ratio }},

	{Label: "Productive Clicks", Extractor: func(m report.Metrics) float64 { return float64(m.ClickCount.Productive) }, HigherIsBetter: true, DetailOnly: true},
	{Label: "Ceremonial Clicks", Extractor: func(m report.Metrics) float64 { return float64(m.ClickCount.Ceremonial) }, DetailOnly: true},
	{Label: "Wasted Clicks", Extractor: func(m report.Metrics) float64 { return float64(m.ClickCount.Wasted) }, DetailOnly: true},
	{Label: "Fitts Cumulative ID", Extractor: func(m report.Metrics) float64 { return m.Fitts.CumulativeID }, DetailOnly: true},
	{Label: "Fitts Max ID", Extractor: func(m report.Metrics) float64 { return m.Fitts.MaxID }, DetailOnly: true},
	{Label: "Context Switch Ratio", Extractor: func(m report.Metrics) float64 { return m.ContextSwitches.Ratio }, DetailOnly: true},
	{Label: "Scanning Dist (cumulative px)", Extractor: func(m report.Metrics) float64 { return m.ScanningDistance.CumulativePx }, DetailOnly: true},
	{Label: "Idle Gaps", Extractor: func(m report.Metrics) float64 { return float64(len(m.TimeOnTask.IdleGaps)) }, DetailOnly: true},
	{Label: "Path Efficiency", Extractor: func(m report.Metrics) float64 { return pathEfficiency(m) }, HigherIsBetter: true, DetailOnly: true},
}

// SummaryMetrics returns the registry entries shown outside CSV.
func SummaryMetrics() []MetricDef {
	var defs []MetricDef
	for _, def := range MetricRegistry {
		if !def.DetailOnly {
			defs = append(defs, def)
		}
	}
	return defs
}

// Best returns the winning value of def across reports.
func Best(def MetricDef, reports []*report.Report) float64 {
	best := 0.0
	for i, r := range reports {
		val := def.Extractor(r.Metrics)
		if i == 0 || (def.HigherIsBetter && val > best) || (!def.HigherIsBetter && val < best) {
			best = val
		}
	}
	return best
}

// ColumnLabel names a report column by product, marking averaged runs.
func ColumnLabel(r *report.Report) string {
	label := r.Metadata.Product
	if label == "" {
		label = r.Metadata.RecordingName
	}
	if label == "" {
		label = "unnamed"
	}
	if r.Metadata.RunCount != nil && *r.Metadata.RunCount > 1 {
		label += " (avg)"
	}
	return label
}

func pathEfficiency(m report.Metrics) float64 {
	if m.MouseTravel.PathEfficiency == nil {
		return 0
	}
	return *m.MouseTravel.PathEfficiency
}
