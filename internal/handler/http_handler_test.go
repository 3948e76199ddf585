package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/processor"
	"github.com/uxbench/uxbench/internal/report"
)

type fakeHistory struct {
	reports []*report.Report
	asked   int64
}

func (f *fakeHistory) RecentReports(_ context.Context, n int64) ([]*report.Report, error) {
	f.asked = n
	return f.reports, nil
}

func newTestServer(t *testing.T, history ReportHistory) *httptest.Server {
	t.Helper()
	p := processor.NewEventProcessor(config.EngineConfig{}, nil, nil)
	t.Cleanup(p.Close)

	srv := httptest.NewServer(NewHTTPHandler(p, history).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS header")
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/v1/session/stop", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 when not recording, got %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/v1/session/start", `{"product":"acme","task":"checkout","browser":"Firefox 120"}`)
	var start StartResponse
	if err := json.NewDecoder(resp.Body).Decode(&start); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	resp.Body.Close()
	if !start.Success || start.SessionID == "" {
		t.Fatalf("unexpected start response: %+v", start)
	}

	resp = post(t, srv.URL+"/v1/events", `{"events":[
		{"type":"click","timestamp":0,"payload":{"x":100,"y":100,"classification":"productive","target":{"tag":"button","rect_width":80,"rect_height":32}}},
		{"type":"click","timestamp":100,"payload":{"x":500,"y":100,"classification":"productive","target":{"tag":"button","rect_width":40,"rect_height":20}}},
		{"type":"click","timestamp":200},
		{"type":"keyboard","timestamp":300,"payload":{"switches_total":2}}
	]}`)
	var events EventResponse
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	resp.Body.Close()
	if events.AcceptedCount != 3 || events.RejectedCount != 1 || events.Success {
		t.Fatalf("unexpected events response: %+v", events)
	}

	statsResp, err := http.Get(srv.URL + "/v1/stats")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	var stats StatsResponse
	if err := json.NewDecoder(statsResp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	statsResp.Body.Close()
	if !stats.Recording || stats.Stats["clicks"].Value != "2" {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	resp = post(t, srv.URL+"/v1/session/stop", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var final report.Report
	if err := json.NewDecoder(resp.Body).Decode(&final); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if final.Metrics.ClickCount.Total != 2 || final.Metrics.ScanningDistance.CumulativePx != 400 {
		t.Fatalf("unexpected report metrics: %+v", final.Metrics.ClickCount)
	}
	if final.Metrics.ContextSwitches.Total != 2 {
		t.Fatalf("expected 2 switches, got %d", final.Metrics.ContextSwitches.Total)
	}
	if final.Metadata.Browser != "Firefox 120" || final.Metadata.SessionID != start.SessionID {
		t.Fatalf("unexpected metadata: %+v", final.Metadata)
	}
}

func TestStartRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/v1/session/start", `{"product":`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAverageEndpoint(t *testing.T) {
	valid := report.New("", report.Metadata{Product: "acme"})
	valid.Metrics.ClickCount.Total = 4
	valid.Metrics.ClickCount.Productive = 4

	history := &fakeHistory{reports: []*report.Report{valid, valid}}
	srv := newTestServer(t, history)

	resp, err := http.Get(srv.URL + "/v1/reports/average?runs=2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var merged report.Report
	if err := json.NewDecoder(resp.Body).Decode(&merged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if merged.Metadata.RunCount == nil || *merged.Metadata.RunCount != 2 || history.asked != 2 {
		t.Fatalf("unexpected average: run_count=%v asked=%d", merged.Metadata.RunCount, history.asked)
	}
}

func TestAverageEndpointErrors(t *testing.T) {
	cases := []struct {
		name    string
		history ReportHistory
		query   string
		status  int
	}{
		{name: "no history", history: nil, query: "", status: http.StatusServiceUnavailable},
		{name: "bad runs", history: &fakeHistory{}, query: "?runs=zero", status: http.StatusBadRequest},
		{name: "no valid reports", history: &fakeHistory{}, query: "?runs=3", status: http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.history)
			resp, err := http.Get(srv.URL + "/v1/reports/average" + tc.query)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}
