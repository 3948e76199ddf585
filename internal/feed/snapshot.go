package feed

import (
	"fmt"
	"strconv"

	"github.com/uxbench/uxbench/internal/report"
)

// Snapshot keys.
const (
	KeyClicks          = "clicks"
	KeyProductive      = "productive_clicks"
	KeyCeremonial      = "ceremonial_clicks"
	KeyWasted          = "wasted_clicks"
	KeyFittsAverage    = "fitts_avg_id"
	KeyFittsCumulative = "fitts_cumulative_id"
	KeySwitches        = "context_switches"
	KeySwitchRatio     = "switch_ratio"
	KeyShortcuts       = "shortcuts_used"
	KeyTypingRatio     = "typing_ratio"
	KeyScanning        = "scanning_distance_px"
	KeyScroll          = "scroll_distance_px"
	KeyMouseTravel     = "mouse_travel_px"
	KeyPathEfficiency  = "path_efficiency"
	KeyIdleGaps        = "idle_gaps"
	KeyComposite       = "composite_score"
)

// Value is one formatted metric on the display surface.
type Value struct {
	Value string `json:"value"`
}

// Snapshot is the display form of the current metrics.
type Snapshot map[string]Value

// BuildSnapshot formats the metrics for display.
func BuildSnapshot(m report.Metrics) Snapshot {
	pathEfficiency := "n/a"
	if m.MouseTravel.PathEfficiency != nil {
		pathEfficiency = FormatRatio(*m.MouseTravel.PathEfficiency)
	}

	return Snapshot{
		KeyClicks:          {Value: strconv.Itoa(m.ClickCount.Total)},
		KeyProductive:      {Value: strconv.Itoa(m.ClickCount.Productive)},
		KeyCeremonial:      {Value: strconv.Itoa(m.ClickCount.Ceremonial)},
		KeyWasted:          {Value: strconv.Itoa(m.ClickCount.Wasted)},
		KeyFittsAverage:    {Value: FormatRatio(m.Fitts.AverageID)},
		KeyFittsCumulative: {Value: FormatRatio(m.Fitts.CumulativeID)},
		KeySwitches:        {Value: strconv.Itoa(m.ContextSwitches.Total)},
		KeySwitchRatio:     {Value: FormatRatio(m.ContextSwitches.Ratio)},
		KeyShortcuts:       {Value: strconv.Itoa(m.ShortcutCoverage.ShortcutsUsed)},
		KeyTypingRatio:     {Value: FormatRatio(m.TypingRatio.Ratio)},
		KeyScanning:        {Value: FormatPx(m.ScanningDistance.CumulativePx)},
		KeyScroll:          {Value: FormatPx(m.ScrollDistance.TotalPx)},
		KeyMouseTravel:     {Value: FormatPx(m.MouseTravel.TotalPx)},
		KeyPathEfficiency:  {Value: pathEfficiency},
		KeyIdleGaps:        {Value: strconv.Itoa(len(m.TimeOnTask.IdleGaps))},
		KeyComposite:       {Value: FormatRatio(m.CompositeScore)},
	}
}

// Pick returns the plain values for keys, skipping unknown ones.
func (s Snapshot) Pick(keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s[k]; ok {
			out[k] = v.Value
		}
	}
	return out
}

// FormatRatio rounds to two decimals.
func FormatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPx prints whole pixels, compacting values above 1000 with a k suffix.
func FormatPx(v float64) string {
	if v > 1000 || v < -1000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
