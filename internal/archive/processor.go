package archive

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/report"
	"github.com/uxbench/uxbench/internal/storage"
)

// ReportSource returns the finalized report for a stopped session.
type ReportSource interface {
	LoadFinalizedReport(ctx context.Context, sessionID string) (*report.Report, error)
}

// Sink stores archive rows.
type Sink interface {
	InsertReports(ctx context.Context, rows []storage.ReportRow) error
}

// Processor turns "stopped" notifications into archived report rows.
type Processor struct {
	source    ReportSource
	sink      Sink
	batchSize int

	buffer []storage.ReportRow
	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

// NewProcessor creates an archive processor that flushes every interval or
// once batchSize rows are buffered.
func NewProcessor(source ReportSource, sink Sink, batchSize int, interval time.Duration) *Processor {
	if batchSize <= 0 {
		batchSize = 20
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	p := &Processor{
		source:    source,
		sink:      sink,
		batchSize: batchSize,
		buffer:    make([]storage.ReportRow, 0, batchSize),
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
	}
	go p.flushLoop()
	return p
}

// Process handles one status message.
func (p *Processor) Process(ctx context.Context, raw map[string]interface{}) error {
	status, _ := raw["status"].(string)
	sessionID, _ := raw["session_id"].(string)
	if status != feed.StatusStopped || sessionID == "" {
		return nil
	}

	// The recorder stores the report before announcing the stop.
	r, err := p.source.LoadFinalizedReport(ctx, sessionID)
	if err != nil {
		return err
	}
	if r == nil {
		log.Warn().Str("session_id", sessionID).Msg("Finalized report not found")
		return nil
	}

	row, err := storage.NewReportRow(sessionID, r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.buffer = append(p.buffer, row)
	shouldFlush := len(p.buffer) >= p.batchSize
	p.mu.Unlock()

	log.Info().
		Str("session_id", sessionID).
		Str("product", r.Metadata.Product).
		Float64("composite_score", r.Metrics.CompositeScore).
		Msg("Report queued for archive")

	if shouldFlush {
		p.Flush()
	}
	return nil
}

func (p *Processor) flushLoop() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.Flush()
		}
	}
}

// Flush writes buffered rows to the sink.
func (p *Processor) Flush() {
	p.mu.Lock()
	if len(p.buffer) == 0 {
		p.mu.Unlock()
		return
	}
	rows := p.buffer
	p.buffer = make([]storage.ReportRow, 0, p.batchSize)
	p.mu.Unlock()

	start := time.Now()
	if err := p.sink.InsertReports(context.Background(), rows); err != nil {
		log.Error().Err(err).Int("count", len(rows)).Msg("Failed to archive reports")
		return
	}
	log.Info().
		Int("count", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Archived reports to ClickHouse")
}

// Stop ends the flush loop and writes what is still buffered.
func (p *Processor) Stop() {
	p.ticker.Stop()
	close(p.done)
	p.Flush()
}
