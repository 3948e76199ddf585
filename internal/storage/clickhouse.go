package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/report"
)

type ClickHouse struct {
	conn driver.Conn
}

// ReportRow is one archived report in benchmark_reports.
type ReportRow struct {
	ReportID          uuid.UUID
	SessionID         string
	SchemaVersion     string
	Source            string
	RecordingName     string
	Product           string
	Task              string
	URL               string
	Operator          string
	Browser           string
	RecordedAt        time.Time
	DurationMs        uint64
	ActiveMs          uint64
	IdleMs            uint64
	IdleGaps          uint32
	ClickTotal        uint32
	ClickProductive   uint32
	ClickCeremonial   uint32
	ClickWasted       uint32
	FittsCumulativeID float64
	FittsAverageID    float64
	FittsMaxID        float64
	ContextSwitches   uint32
	ShortcutsUsed     uint32
	TypingRatio       float64
	ScanningPx        float64
	ScrollPx          float64
	MouseTravelPx     float64
	PathEfficiency    *float64
	CompositeScore    float64
	Payload           string
}

// NewReportRow flattens a finalized report into an archive row.
func NewReportRow(sessionID string, r *report.Report) (ReportRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return ReportRow{}, err
	}

	m := r.Metrics
	row := ReportRow{
		ReportID:          uuid.New(),
		SessionID:         sessionID,
		SchemaVersion:     r.SchemaVersion,
		Source:            r.Source,
		RecordingName:     r.Metadata.RecordingName,
		Product:           r.Metadata.Product,
		Task:              r.Metadata.Task,
		URL:               r.Metadata.URL,
		Operator:          r.Metadata.Operator,
		Browser:           r.Metadata.Browser,
		RecordedAt:        r.Metadata.Timestamp,
		DurationMs:        uint64(nonNegative(m.TimeOnTask.TotalMS)),
		IdleGaps:          uint32(len(m.TimeOnTask.IdleGaps)),
		ClickTotal:        uint32(nonNegative(m.ClickCount.Total)),
		ClickProductive:   uint32(nonNegative(m.ClickCount.Productive)),
		ClickCeremonial:   uint32(nonNegative(m.ClickCount.Ceremonial)),
		ClickWasted:       uint32(nonNegative(m.ClickCount.Wasted)),
		FittsCumulativeID: m.Fitts.CumulativeID,
		FittsAverageID:    m.Fitts.AverageID,
		FittsMaxID:        m.Fitts.MaxID,
		ContextSwitches:   uint32(nonNegative(m.ContextSwitches.Total)),
		ShortcutsUsed:     uint32(nonNegative(m.ShortcutCoverage.ShortcutsUsed)),
		TypingRatio:       m.TypingRatio.Ratio,
		ScanningPx:        m.ScanningDistance.CumulativePx,
		ScrollPx:          m.ScrollDistance.TotalPx,
		MouseTravelPx:     m.MouseTravel.TotalPx,
		PathEfficiency:    m.MouseTravel.PathEfficiency,
		CompositeScore:    m.CompositeScore,
		Payload:           string(payload),
	}
	if m.TimeOnTask.ActiveMS != nil {
		row.ActiveMs = uint64(nonNegative(*m.TimeOnTask.ActiveMS))
	}
	if m.TimeOnTask.IdleMS != nil {
		row.IdleMs = uint64(nonNegative(*m.TimeOnTask.IdleMS))
	}
	return row, nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func NewClickHouse(cfg config.ClickHouseConfig) (*ClickHouse, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &ClickHouse{conn: conn}, nil
}

func (c *ClickHouse) InsertReports(ctx context.Context, rows []ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `
		INSERT INTO benchmark_reports (
			report_id, session_id, schema_version, source,
			recording_name, product, task, url, operator, browser,
			recorded_at, duration_ms, active_ms, idle_ms, idle_gaps,
			click_total, click_productive, click_ceremonial, click_wasted,
			fitts_cumulative_id, fitts_average_id, fitts_max_id,
			context_switches, shortcuts_used, typing_ratio,
			scanning_px, scroll_px, mouse_travel_px, path_efficiency,
			composite_score, payload
		)
	`)
	if err != nil {
		return err
	}

	for _, r := range rows {
		err := batch.Append(
			r.ReportID, r.SessionID, r.SchemaVersion, r.Source,
			r.RecordingName, r.Product, r.Task, r.URL, r.Operator, r.Browser,
			r.RecordedAt, r.DurationMs, r.ActiveMs, r.IdleMs, r.IdleGaps,
			r.ClickTotal, r.ClickProductive, r.ClickCeremonial, r.ClickWasted,
			r.FittsCumulativeID, r.FittsAverageID, r.FittsMaxID,
			r.ContextSwitches, r.ShortcutsUsed, r.TypingRatio,
			r.ScanningPx, r.ScrollPx, r.MouseTravelPx, r.PathEfficiency,
			r.CompositeScore, r.Payload,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

func (c *ClickHouse) Close() error {
	return c.conn.Close()
}
