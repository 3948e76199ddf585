package feed

import (
	"testing"
	"time"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/event"
	"github.com/uxbench/uxbench/internal/metrics"
	"github.com/uxbench/uxbench/internal/report"
)

func TestFormatPx(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: 399.6, want: "400"},
		{in: 1000, want: "1000"},
		{in: 1500, want: "1.5k"},
		{in: 12345, want: "12.3k"},
	}
	for _, tc := range cases {
		if got := FormatPx(tc.in); got != tc.want {
			t.Fatalf("FormatPx(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if got := FormatRatio(3.4594); got != "3.46" {
		t.Fatalf("expected 3.46, got %q", got)
	}
}

func TestBuildSnapshot(t *testing.T) {
	r := report.New("", report.Metadata{})
	snap := BuildSnapshot(r.Metrics)
	if snap[KeyPathEfficiency].Value != "n/a" {
		t.Fatalf("expected n/a path efficiency, got %q", snap[KeyPathEfficiency].Value)
	}

	eff := 0.5
	r.Metrics.MouseTravel.PathEfficiency = &eff
	r.Metrics.ClickCount.Total = 7
	r.Metrics.CompositeScore = 14.5
	snap = BuildSnapshot(r.Metrics)
	if snap[KeyPathEfficiency].Value != "0.50" || snap[KeyClicks].Value != "7" || snap[KeyComposite].Value != "14.50" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	picked := snap.Pick(KeyClicks, "missing")
	if len(picked) != 1 || picked[KeyClicks] != "7" {
		t.Fatalf("unexpected pick: %v", picked)
	}
}

func TestBuildEntriesAnnouncesIdleOnce(t *testing.T) {
	tr := metrics.NewTracker(config.EngineConfig{})
	st := metrics.NewState("s1", time.Unix(0, 0), "", report.Metadata{})

	step := func(ev event.Event) []Entry {
		if err := tr.Apply(st, ev); err != nil {
			t.Fatalf("apply: %v", err)
		}
		return BuildEntries(st, ev, BuildSnapshot(st.Report.Metrics))
	}

	first := step(event.Click{Timestamp: 0, Classification: event.Productive, Target: event.Target{Tag: "a", Text: "Home"}})
	if len(first) != 1 || first[0].Label != "Click Home" || first[0].Detail != "productive" {
		t.Fatalf("unexpected first entries: %+v", first)
	}

	second := step(event.Click{Timestamp: 5000, X: 10, Classification: event.Wasted, Reason: "no effect", Target: event.Target{Tag: "div"}})
	if len(second) != 2 {
		t.Fatalf("expected idle + click entries, got %+v", second)
	}
	if second[0].Type != TypeIdle || second[0].Label != "Idle 5.0s" || second[0].Detail != "after Home, before div" {
		t.Fatalf("unexpected idle entry: %+v", second[0])
	}
	if second[1].Detail != "wasted: no effect" {
		t.Fatalf("unexpected click detail: %q", second[1].Detail)
	}
	if second[1].MetricUpdates[KeyWasted] != "1" {
		t.Fatalf("expected wasted_clicks update, got %v", second[1].MetricUpdates)
	}

	third := step(event.Scroll{Timestamp: 5100, TotalPx: 1500})
	if len(third) != 1 || third[0].Label != "Scrolled 1.5kpx" {
		t.Fatalf("expected only the scroll entry, got %+v", third)
	}
	fourth := step(event.Scroll{Timestamp: 5200, TotalPx: 1800})
	if fourth[0].Label != "Scrolled 300px" {
		t.Fatalf("expected scroll delta, got %q", fourth[0].Label)
	}

	if fourth[0].ID != "s1-5" {
		t.Fatalf("expected sequential ids, got %q", fourth[0].ID)
	}
}
