package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/uxbench/uxbench/internal/average"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAverageNoValidReportsFails(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"metrics":{"click_count":{"total":5,"productive":1}}}`)
	output := filepath.Join(dir, "averaged.json")

	cmd := newAverageCmd()
	cmd.SetArgs([]string{"-o", output, bad})
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if !errors.Is(err, average.ErrNoValidReports) {
		t.Fatalf("expected ErrNoValidReports, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat returned %v", err)
	}
}

func TestAverageWritesMergedReport(t *testing.T) {
	dir := t.TempDir()
	run := `{"metrics":{"click_count":{"total":2,"productive":2},"composite_score":4}}`
	a := writeFile(t, dir, "a.json", run)
	b := writeFile(t, dir, "b.json", run)
	output := filepath.Join(dir, "averaged.json")

	cmd := newAverageCmd()
	cmd.SetArgs([]string{"-o", output, a, b})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("average: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}
