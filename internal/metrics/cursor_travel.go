package metrics

import "github.com/uxbench/uxbench/internal/event"

// processCursorTravel copies the cursor totals and derives path efficiency:
// straight-line scanning distance over actual travel.
func processCursorTravel(st *State, ev event.CursorTravel) {
	mt := &st.Report.Metrics.MouseTravel
	mt.TotalPx = ev.TotalPx
	mt.IdleTravelPx = ev.IdleTravelPx
	mt.MoveEvents = ev.MoveEvents

	if ev.TotalPx > 0 {
		efficiency := st.Report.Metrics.ScanningDistance.CumulativePx / ev.TotalPx
		mt.PathEfficiency = &efficiency
	} else {
		mt.PathEfficiency = nil
	}
}
