package metrics

import "github.com/uxbench/uxbench/internal/report"

// checkIdle records a gap when the pause since the previous action exceeds
// the idle threshold, then moves the last-action cursor to this event.
func (t *Tracker) checkIdle(st *State, ts int64, label string) {
	if st.LastActionAt != nil {
		gap := ts - *st.LastActionAt
		if gap > t.idleThresholdMs {
			tot := &st.Report.Metrics.TimeOnTask
			tot.IdleGaps = append(tot.IdleGaps, report.IdleGap{
				GapMS:        float64(gap),
				AfterAction:  st.LastActionLabel,
				BeforeAction: label,
			})
		}
	}

	at := ts
	st.LastActionAt = &at
	st.LastActionLabel = label
}
