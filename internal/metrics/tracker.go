package metrics

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/event"
)

// Tracker applies interaction events to a session state.
type Tracker struct {
	idleThresholdMs   int64
	actionLogCapacity int
	labelMaxLen       int
}

// NewTracker creates a tracker from the engine configuration.
func NewTracker(cfg config.EngineConfig) *Tracker {
	cfg = cfg.WithDefaults()
	return &Tracker{
		idleThresholdMs:   cfg.IdleThresholdMs,
		actionLogCapacity: cfg.ActionLogCapacity,
		labelMaxLen:       cfg.LabelMaxLen,
	}
}

// Apply routes ev to its processor and recomputes the composite score.
// Invalid events are rejected before any field is touched.
func (t *Tracker) Apply(st *State, ev event.Event) error {
	if st == nil || st.Report == nil {
		return fmt.Errorf("no session state")
	}

	switch e := ev.(type) {
	case event.Click:
		if !e.Classification.Valid() {
			return fmt.Errorf("click classification %q", e.Classification)
		}
		t.checkIdle(st, e.Timestamp, t.targetLabel(e.Target))
		t.processClick(st, e)
	case event.Scroll:
		t.checkIdle(st, e.Timestamp, "scroll")
		processScroll(st, e)
	case event.Keyboard:
		t.checkIdle(st, e.Timestamp, "keyboard")
		processKeyboard(st, e)
	case event.CursorTravel:
		// Cursor travel is continuous and never counts as an action.
		processCursorTravel(st, e)
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}

	st.Report.Metrics.CompositeScore = CompositeScore(st.Report.Metrics)
	return nil
}

// targetLabel is the short human label for a click target: its text, or the
// tag name when the element has none.
func (t *Tracker) targetLabel(target event.Target) string {
	text := strings.Join(strings.Fields(target.Text), " ")
	if text == "" {
		return target.Tag
	}
	if utf8.RuneCountInString(text) <= t.labelMaxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:t.labelMaxLen]) + "…"
}

func targetSelector(target event.Target) string {
	if target.ID == "" {
		return target.Tag
	}
	return target.Tag + "#" + target.ID
}
