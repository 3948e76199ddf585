package feed

import (
	"fmt"
	"time"

	"github.com/uxbench/uxbench/internal/event"
	"github.com/uxbench/uxbench/internal/metrics"
)

const TypeIdle = "idle"

// Entry is one line of the activity timeline.
type Entry struct {
	ID            string            `json:"id"`
	Timestamp     int64             `json:"timestamp"`
	Type          string            `json:"type"`
	Label         string            `json:"label"`
	Detail        string            `json:"detail,omitempty"`
	MetricUpdates map[string]string `json:"metric_updates"`
}

// Session status values published on start and stop.
const (
	StatusRecording = "recording"
	StatusStopped   = "stopped"
)

// Status announces a session lifecycle change.
type Status struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// BuildEntries describes ev for the timeline. Idle gaps appended since the
// last call come first and are marked announced on st.
func BuildEntries(st *metrics.State, ev event.Event, snap Snapshot) []Entry {
	var entries []Entry

	gaps := st.Report.Metrics.TimeOnTask.IdleGaps
	for ; st.AnnouncedGaps < len(gaps); st.AnnouncedGaps++ {
		gap := gaps[st.AnnouncedGaps]
		entries = append(entries, newEntry(st, ev.Time(), TypeIdle,
			fmt.Sprintf("Idle %.1fs", gap.GapMS/1000),
			fmt.Sprintf("after %s, before %s", gap.AfterAction, gap.BeforeAction),
			snap.Pick(KeyIdleGaps),
		))
	}

	switch e := ev.(type) {
	case event.Click:
		detail := string(e.Classification)
		if e.Reason != "" {
			detail += ": " + e.Reason
		}
		entries = append(entries, newEntry(st, e.Timestamp, event.TypeClick,
			"Click "+st.LastClickLabel,
			detail,
			snap.Pick(KeyClicks, string(e.Classification)+"_clicks", KeyFittsAverage, KeyFittsCumulative, KeyScanning, KeyComposite),
		))

	case event.Scroll:
		delta := e.TotalPx - st.LastScrollTotal
		st.LastScrollTotal = e.TotalPx
		entries = append(entries, newEntry(st, e.Timestamp, event.TypeScroll,
			"Scrolled "+FormatPx(delta)+"px",
			"total "+FormatPx(e.TotalPx)+"px",
			snap.Pick(KeyScroll, KeyComposite),
		))

	case event.Keyboard:
		entries = append(entries, newEntry(st, e.Timestamp, event.TypeKeyboard,
			fmt.Sprintf("Keyboard: %d switches", e.SwitchesTotal),
			fmt.Sprintf("longest keyboard streak %d, %d shortcuts", e.LongestKeyboardStreak, e.ShortcutsUsed),
			snap.Pick(KeySwitches, KeySwitchRatio, KeyShortcuts, KeyTypingRatio, KeyComposite),
		))

	case event.CursorTravel:
		delta := e.TotalPx - st.LastTravelTotal
		st.LastTravelTotal = e.TotalPx
		entries = append(entries, newEntry(st, e.Timestamp, event.TypeCursorTravel,
			"Cursor travel +"+FormatPx(delta)+"px",
			"path efficiency "+snap[KeyPathEfficiency].Value,
			snap.Pick(KeyMouseTravel, KeyPathEfficiency),
		))
	}

	return entries
}

func newEntry(st *metrics.State, ts int64, typ, label, detail string, updates map[string]string) Entry {
	st.FeedSeq++
	return Entry{
		ID:            fmt.Sprintf("%s-%d", st.SessionID, st.FeedSeq),
		Timestamp:     ts,
		Type:          typ,
		Label:         label,
		Detail:        detail,
		MetricUpdates: updates,
	}
}
