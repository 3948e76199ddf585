package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/uxbench/uxbench/internal/event"
	"github.com/uxbench/uxbench/internal/report"
)

const maxHardestTargets = 3

func (t *Tracker) processClick(st *State, ev event.Click) {
	m := &st.Report.Metrics
	label := t.targetLabel(ev.Target)

	countClick(&m.ClickCount, ev)

	if st.LastClick != nil {
		dx := ev.X - st.LastClick.X
		dy := ev.Y - st.LastClick.Y
		distance := math.Hypot(dx, dy)

		sd := &m.ScanningDistance
		sd.CumulativePx += distance
		if distance > sd.MaxSinglePx {
			from, to := st.LastClickLabel, label
			sd.MaxSinglePx = distance
			sd.MaxSingleFrom = &from
			sd.MaxSingleTo = &to
		}

		recordFitts(&m.Fitts, label, dx, dy, distance, ev.Target)
	}

	movements := m.ClickCount.Total - 1
	if movements > 0 {
		m.Fitts.AverageID = m.Fitts.CumulativeID / float64(movements)
		m.ScanningDistance.AveragePx = m.ScanningDistance.CumulativePx / float64(movements)
	} else {
		m.Fitts.AverageID = 0
		m.ScanningDistance.AveragePx = 0
	}

	st.LastClick = &Point{X: ev.X, Y: ev.Y}
	st.LastClickLabel = label

	t.appendAction(st, report.ActionLogEntry{
		Type:           event.TypeClick,
		Timestamp:      ev.Timestamp,
		Target:         targetSelector(ev.Target),
		Text:           label,
		Classification: string(ev.Classification),
	})
}

func countClick(cc *report.ClickCount, ev event.Click) {
	cc.Total++
	switch ev.Classification {
	case event.Productive:
		cc.Productive++
	case event.Ceremonial:
		cc.Ceremonial++
		cc.CeremonialDetails = append(cc.CeremonialDetails, report.ClickContextDetail{
			Element: targetSelector(ev.Target),
			Reason:  ev.Reason,
		})
	case event.Wasted:
		cc.Wasted++
		cc.WastedDetails = append(cc.WastedDetails, report.ClickContextDetail{
			Element: targetSelector(ev.Target),
			Reason:  ev.Reason,
		})
	}
}

// IndexOfDifficulty is the Shannon formulation of Fitts's Law using the
// target extent along the approach direction as effective width. ok is false
// for degenerate geometry (zero distance or zero effective width).
func IndexOfDifficulty(dx, dy, width, height float64) (id, effectiveWidth float64, ok bool) {
	distance := math.Hypot(dx, dy)
	angle := math.Atan2(math.Abs(dy), math.Abs(dx))
	effectiveWidth = width*math.Abs(math.Cos(angle)) + height*math.Abs(math.Sin(angle))
	if effectiveWidth <= 0 || distance <= 0 {
		return 0, effectiveWidth, false
	}
	return math.Log2(distance/effectiveWidth + 1), effectiveWidth, true
}

func recordFitts(f *report.Fitts, element string, dx, dy, distance float64, target event.Target) {
	id, _, ok := IndexOfDifficulty(dx, dy, target.RectWidth, target.RectHeight)
	if !ok {
		return
	}

	size := formatTargetSize(target.RectWidth, target.RectHeight)
	f.CumulativeID += id
	if id > f.MaxID {
		f.MaxID = id
		f.MaxIDElement = element
		f.MaxIDDistancePx = distance
		f.MaxIDTargetSize = size
	}

	f.Top3Hardest = append(f.Top3Hardest, report.FittsTarget{
		Element:    element,
		ID:         id,
		DistancePx: distance,
		TargetSize: size,
	})
	sort.SliceStable(f.Top3Hardest, func(i, j int) bool {
		return f.Top3Hardest[i].ID > f.Top3Hardest[j].ID
	})
	if len(f.Top3Hardest) > maxHardestTargets {
		f.Top3Hardest = f.Top3Hardest[:maxHardestTargets]
	}
}

func formatTargetSize(w, h float64) string {
	return strconv.FormatFloat(math.Round(w), 'f', -1, 64) + "x" +
		strconv.FormatFloat(math.Round(h), 'f', -1, 64) + "px"
}

// appendAction adds an entry to the action log, evicting the oldest entries
// once capacity is reached.
func (t *Tracker) appendAction(st *State, entry report.ActionLogEntry) {
	entries := append(st.Report.ActionLog, entry)
	if over := len(entries) - t.actionLogCapacity; over > 0 {
		entries = append(entries[:0], entries[over:]...)
	}
	st.Report.ActionLog = entries
}
