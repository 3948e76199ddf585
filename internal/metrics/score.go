package metrics

import "github.com/uxbench/uxbench/internal/report"

// Composite score weights. Cursor travel is left out on purpose: its motor
// cost already shows up in Fitts's Law and scanning distance.
const (
	SwitchWeight = 1.5
	FittsWeight  = 1.0
	ScrollWeight = 0.005
)

// CompositeScore is the weighted interaction cost of the current metrics.
func CompositeScore(m report.Metrics) float64 {
	return float64(m.ContextSwitches.Total)*SwitchWeight +
		m.Fitts.CumulativeID*FittsWeight +
		m.ScrollDistance.TotalPx*ScrollWeight
}
