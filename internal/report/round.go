package report

import "math"

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Freeze rounds the floating point metrics of a finished session so that
// stored reports compare and average cleanly.
func (r *Report) Freeze() {
	m := &r.Metrics

	m.Fitts.CumulativeID = Round2(m.Fitts.CumulativeID)
	m.Fitts.AverageID = Round2(m.Fitts.AverageID)
	m.Fitts.MaxID = Round2(m.Fitts.MaxID)
	m.Fitts.MaxIDDistancePx = Round2(m.Fitts.MaxIDDistancePx)
	for i := range m.Fitts.Top3Hardest {
		m.Fitts.Top3Hardest[i].ID = Round2(m.Fitts.Top3Hardest[i].ID)
		m.Fitts.Top3Hardest[i].DistancePx = Round2(m.Fitts.Top3Hardest[i].DistancePx)
	}

	m.ContextSwitches.Ratio = Round2(m.ContextSwitches.Ratio)
	m.TypingRatio.Ratio = Round2(m.TypingRatio.Ratio)

	m.ScanningDistance.CumulativePx = Round2(m.ScanningDistance.CumulativePx)
	m.ScanningDistance.AveragePx = Round2(m.ScanningDistance.AveragePx)
	m.ScanningDistance.MaxSinglePx = Round2(m.ScanningDistance.MaxSinglePx)

	m.ScrollDistance.TotalPx = Round2(m.ScrollDistance.TotalPx)
	roundPtr(m.ScrollDistance.PageScrollPx)
	roundPtr(m.ScrollDistance.ContainerScrollPx)
	roundPtr(m.ScrollDistance.TotalHorizontalPx)

	m.MouseTravel.TotalPx = Round2(m.MouseTravel.TotalPx)
	m.MouseTravel.IdleTravelPx = Round2(m.MouseTravel.IdleTravelPx)
	roundPtr(m.MouseTravel.PathEfficiency)

	for i := range m.TimeOnTask.IdleGaps {
		m.TimeOnTask.IdleGaps[i].GapMS = math.Round(m.TimeOnTask.IdleGaps[i].GapMS)
	}

	m.CompositeScore = Round2(m.CompositeScore)
}

func roundPtr(v *float64) {
	if v != nil {
		*v = Round2(*v)
	}
}
