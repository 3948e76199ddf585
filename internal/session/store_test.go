package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/metrics"
	"github.com/uxbench/uxbench/internal/report"
)

func TestKeys(t *testing.T) {
	k := NewKeys("bench")
	cases := map[string]string{
		k.SessionState():         "bench:session_state",
		k.Stats():                "bench:stats",
		k.FinalizedReport("abc"): "bench:finalized_report:abc",
		k.Reports():              "bench:reports",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}

	if got := NewKeys("").Stats(); got != "uxbench:stats" {
		t.Fatalf("expected default prefix, got %q", got)
	}
}

// newRedisStore connects to UXBENCH_TEST_REDIS, skipping when it is unset.
func newRedisStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("UXBENCH_TEST_REDIS")
	if addr == "" {
		t.Skip("UXBENCH_TEST_REDIS not set")
	}

	s := NewStore(config.RedisConfig{
		Addr:         addr,
		Prefix:       "uxbench-test-" + time.Now().Format("150405.000000"),
		HistoryLimit: 2,
	})
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	st := metrics.NewState("s1", time.Unix(100, 0), "", report.Metadata{Product: "acme"})
	if err := s.SaveSessionState(ctx, st); err != nil {
		t.Fatalf("save state: %v", err)
	}
	loaded, err := s.LoadSessionState(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded == nil || loaded.SessionID != "s1" || !loaded.Recording {
		t.Fatalf("unexpected state: %+v", loaded)
	}

	if err := s.SaveStats(ctx, "s1", feed.BuildSnapshot(st.Report.Metrics)); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	rec, err := s.LoadStats(ctx)
	if err != nil || rec == nil || rec.Snapshot[feed.KeyClicks].Value != "0" {
		t.Fatalf("unexpected stats: %+v %v", rec, err)
	}

	if err := s.ClearSessionState(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if loaded, _ := s.LoadSessionState(ctx); loaded != nil {
		t.Fatalf("expected cleared state")
	}

	for _, id := range []string{"r1", "r2", "r3"} {
		r := report.New("", report.Metadata{SessionID: id})
		if err := s.SaveFinalizedReport(ctx, id, r); err != nil {
			t.Fatalf("save report: %v", err)
		}
	}
	recent, err := s.RecentReports(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Metadata.SessionID != "r3" {
		t.Fatalf("expected the two newest reports, got %d", len(recent))
	}
}

func TestStoreMissingFinalizedReport(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	r, err := s.LoadFinalizedReport(ctx, "never-written")
	if err != nil || r != nil {
		t.Fatalf("expected nil report and no error, got %+v %v", r, err)
	}

	if err := s.SaveFinalizedReport(ctx, "kept", report.New("", report.Metadata{SessionID: "kept"})); err != nil {
		t.Fatalf("save report: %v", err)
	}
	if err := s.redis.LPush(ctx, s.keys.Reports(), "expired").Err(); err != nil {
		t.Fatalf("push: %v", err)
	}
	recent, err := s.RecentReports(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Metadata.SessionID != "kept" {
		t.Fatalf("expected expired entries to be skipped, got %d reports", len(recent))
	}
}
