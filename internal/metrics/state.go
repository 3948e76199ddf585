package metrics

import (
	"time"

	"github.com/uxbench/uxbench/internal/report"
)

// Point is a click position in page pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the mutable per-session record the engine works on. It is
// serialisable so a recording can survive a restart.
type State struct {
	SessionID       string         `json:"session_id"`
	Recording       bool           `json:"recording"`
	StartedAt       time.Time      `json:"started_at"`
	LastActionAt    *int64         `json:"last_action_at,omitempty"`
	LastActionLabel string         `json:"last_action_label,omitempty"`
	LastClick       *Point         `json:"last_click,omitempty"`
	LastClickLabel  string         `json:"last_click_label,omitempty"`
	FeedSeq         int            `json:"feed_seq"`
	LastScrollTotal float64        `json:"last_scroll_total"`
	LastTravelTotal float64        `json:"last_travel_total"`
	AnnouncedGaps   int            `json:"announced_gaps"`
	Report          *report.Report `json:"report"`
}

// NewState returns a recording state with an empty report.
func NewState(sessionID string, startedAt time.Time, source string, meta report.Metadata) *State {
	meta.SessionID = sessionID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = startedAt
	}
	return &State{
		SessionID: sessionID,
		Recording: true,
		StartedAt: startedAt,
		Report:    report.New(source, meta),
	}
}
