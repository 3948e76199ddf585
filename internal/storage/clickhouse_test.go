package storage

import (
	"encoding/json"
	"testing"

	"github.com/uxbench/uxbench/internal/report"
)

func TestNewReportRow(t *testing.T) {
	r := report.New("", report.Metadata{Product: "acme", Task: "checkout"})
	r.Metrics.ClickCount.Total = 2
	r.Metrics.ClickCount.Productive = 2
	r.Metrics.TimeOnTask.TotalMS = -5
	r.Metrics.TimeOnTask.IdleGaps = []report.IdleGap{{GapMS: 4000}}
	active := 3000
	r.Metrics.TimeOnTask.ActiveMS = &active

	row, err := NewReportRow("s1", r)
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if row.SessionID != "s1" || row.Product != "acme" || row.ClickTotal != 2 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.DurationMs != 0 {
		t.Fatalf("expected negative durations to clamp to 0, got %d", row.DurationMs)
	}
	if row.ActiveMs != 3000 || row.IdleMs != 0 || row.IdleGaps != 1 {
		t.Fatalf("unexpected time columns: %+v", row)
	}

	var payload report.Report
	if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Metadata.Task != "checkout" {
		t.Fatalf("unexpected payload: %+v", payload.Metadata)
	}
}
