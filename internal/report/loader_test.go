package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")

	r := New("", Metadata{Product: "acme", Task: "checkout"})
	r.Metrics.ClickCount.Total = 2
	r.Metrics.ClickCount.Productive = 2

	if err := Write(path, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.SchemaVersion != SchemaVersion || got.Source != DefaultSource {
		t.Fatalf("unexpected header: %q %q", got.SchemaVersion, got.Source)
	}
	if got.Metadata.Product != "acme" || got.Metrics.ClickCount.Total != 2 {
		t.Fatalf("unexpected report: %+v", got.Metadata)
	}
	if got.Metrics.ClickCount.WastedDetails == nil || got.ActionLog == nil {
		t.Fatalf("expected empty lists to survive the round trip")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(bad); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadAll([]string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestLoadAcceptsOtherSchemaVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"schema_version":"0.9","metrics":{"click_count":{"total":1,"productive":1}}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.SchemaVersion != "0.9" || r.Metrics.ClickCount.Total != 1 {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestFreezeRounds(t *testing.T) {
	eff := 0.123456
	r := New("", Metadata{})
	r.Metrics.Fitts.CumulativeID = 3.459431
	r.Metrics.MouseTravel.PathEfficiency = &eff
	r.Metrics.TimeOnTask.IdleGaps = []IdleGap{{GapMS: 4999.6}}

	r.Freeze()

	if r.Metrics.Fitts.CumulativeID != 3.46 {
		t.Fatalf("expected 3.46, got %v", r.Metrics.Fitts.CumulativeID)
	}
	if *r.Metrics.MouseTravel.PathEfficiency != 0.12 {
		t.Fatalf("expected 0.12, got %v", *r.Metrics.MouseTravel.PathEfficiency)
	}
	if r.Metrics.TimeOnTask.IdleGaps[0].GapMS != 5000 {
		t.Fatalf("expected 5000, got %v", r.Metrics.TimeOnTask.IdleGaps[0].GapMS)
	}
}
