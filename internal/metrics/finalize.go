package metrics

import (
	"math"
	"time"

	"github.com/uxbench/uxbench/internal/report"
)

// Finalize closes the session: derives the time-on-task breakdown,
// recomputes the composite score and freezes the report.
func Finalize(st *State, now time.Time) *report.Report {
	r := st.Report
	tot := &r.Metrics.TimeOnTask

	total := int(now.Sub(st.StartedAt).Milliseconds())
	if total < 0 {
		total = 0
	}
	tot.TotalMS = total
	r.Metadata.DurationMS = total

	idle, longest := 0, 0
	var longestAfter *string
	for _, gap := range tot.IdleGaps {
		ms := int(math.Round(gap.GapMS))
		idle += ms
		if ms > longest {
			after := gap.AfterAction
			longest = ms
			longestAfter = &after
		}
	}
	active := total - idle
	if active < 0 {
		active = 0
	}
	tot.IdleMS = &idle
	tot.ActiveMS = &active
	tot.LongestIdleMS = &longest
	tot.LongestIdleAfter = longestAfter

	r.Metrics.CompositeScore = CompositeScore(r.Metrics)
	r.Freeze()

	st.Recording = false
	return r
}
