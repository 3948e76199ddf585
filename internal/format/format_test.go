package format

import (
	"strings"
	"testing"
	"time"

	"github.com/uxbench/uxbench/internal/report"
)

func testReports() []*report.Report {
	a := report.New("", report.Metadata{Product: "Alpha", Task: "checkout"})
	a.Metrics.CompositeScore = 14.5
	a.Metrics.ClickCount.Total = 6
	a.Metrics.ShortcutCoverage.ShortcutsUsed = 2

	b := report.New("", report.Metadata{Product: "Beta", Task: "checkout"})
	b.Metrics.CompositeScore = 20
	b.Metrics.ClickCount.Total = 4
	runs := 3
	b.Metadata.RunCount = &runs

	return []*report.Report{a, b}
}

func TestGenerateMarkdownTable(t *testing.T) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	md := GenerateMarkdownTable(testReports(), generated)

	if !strings.HasPrefix(md, "# UX Bench Comparison Report\n") {
		t.Fatalf("missing title: %q", md)
	}
	if !strings.Contains(md, "Generated on: "+generated.Format(time.RFC1123)) {
		t.Fatalf("missing generation time")
	}
	if !strings.Contains(md, "| Metric | Alpha | Beta (avg) |") {
		t.Fatalf("unexpected header in:\n%s", md)
	}
	if !strings.Contains(md, "| Composite Score | **14.50** | 20.00 |") {
		t.Fatalf("expected lower composite score to win in:\n%s", md)
	}
	if !strings.Contains(md, "| Shortcuts Used | **2.00** | 0.00 |") {
		t.Fatalf("expected more shortcuts to win in:\n%s", md)
	}
	if strings.Contains(md, "Wasted Clicks") {
		t.Fatalf("detail-only metrics should not appear in markdown")
	}
}

func TestGenerateCSV(t *testing.T) {
	csv, err := GenerateCSV(testReports())
	if err != nil {
		t.Fatalf("generate csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	if lines[0] != "Metric,Alpha,Beta (avg)" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "Task,checkout,checkout" {
		t.Fatalf("unexpected task row %q", lines[1])
	}
	if len(lines) != 2+len(MetricRegistry) {
		t.Fatalf("expected %d rows, got %d", 2+len(MetricRegistry), len(lines))
	}
	if lines[2] != "Composite Score,14.50,20.00" {
		t.Fatalf("unexpected first metric row %q", lines[2])
	}
}

func TestGenerateCSVQuotesLabels(t *testing.T) {
	r := report.New("", report.Metadata{Product: `Acme, "Pro"`, Task: "checkout"})

	out, err := GenerateCSV([]*report.Report{r})
	if err != nil {
		t.Fatalf("generate csv: %v", err)
	}
	header := strings.SplitN(out, "\n", 2)[0]
	if header != `Metric,"Acme, ""Pro"""` {
		t.Fatalf("unexpected header %q", header)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(testReports(), time.Now())
	for _, want := range []string{"Comparison Matrix", "Alpha", "Beta (avg)", "Composite Score", "14.50*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		12000:  "12,000",
		14.5:   "14.50",
		0:      "0",
		1234.5: "1,234.50",
	}
	for in, want := range cases {
		if got := FormatValue(in); got != want {
			t.Fatalf("FormatValue(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestColumnLabel(t *testing.T) {
	r := report.New("", report.Metadata{RecordingName: "run-1"})
	if got := ColumnLabel(r); got != "run-1" {
		t.Fatalf("expected recording name fallback, got %q", got)
	}
	if got := ColumnLabel(report.New("", report.Metadata{})); got != "unnamed" {
		t.Fatalf("expected unnamed, got %q", got)
	}
}
