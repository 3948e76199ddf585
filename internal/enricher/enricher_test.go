package enricher

import (
	"testing"

	"github.com/uxbench/uxbench/internal/report"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

func TestEnrichFillsMissingFields(t *testing.T) {
	meta := Enrich(report.Metadata{Product: "acme"}, firefoxUA)
	if meta.Browser != "Firefox 120.0" {
		t.Fatalf("expected Firefox 120.0, got %q", meta.Browser)
	}
	if meta.OS == "" {
		t.Fatalf("expected os to be filled")
	}
	if meta.Operator != "" {
		t.Fatalf("expected operator to stay empty for a browser, got %q", meta.Operator)
	}
}

func TestEnrichKeepsClientValues(t *testing.T) {
	meta := Enrich(report.Metadata{Browser: "Chrome 131", OS: "macOS", Operator: "human"}, firefoxUA)
	if meta.Browser != "Chrome 131" || meta.OS != "macOS" || meta.Operator != "human" {
		t.Fatalf("expected client values to win, got %+v", meta)
	}

	empty := Enrich(report.Metadata{}, "")
	if empty.Browser != "" || empty.OS != "" {
		t.Fatalf("expected no enrichment without a user agent, got %+v", empty)
	}
}

func TestEnrichMarksBots(t *testing.T) {
	meta := Enrich(report.Metadata{}, "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if meta.Operator != "agent" {
		t.Fatalf("expected agent operator, got %q", meta.Operator)
	}
	if got := DeviceType("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"); got != "bot" {
		t.Fatalf("expected bot, got %q", got)
	}
	if got := DeviceType(firefoxUA); got != "desktop" {
		t.Fatalf("expected desktop, got %q", got)
	}
}
