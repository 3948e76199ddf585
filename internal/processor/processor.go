package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/event"
	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/metrics"
	"github.com/uxbench/uxbench/internal/report"
	"github.com/uxbench/uxbench/internal/transformer"
)

// ErrPersistence marks a finalized report that could not be stored. The
// report is still returned but "stopped" is not announced.
var ErrPersistence = errors.New("failed to persist finalized report")

// EventProcessor owns the recording session. Every state change runs on its
// queue, so the session needs no further locking.
type EventProcessor struct {
	cfg       config.EngineConfig
	tracker   *metrics.Tracker
	store     Store
	publisher Publisher
	queue     *Queue
	now       func() time.Time

	// Only touched from queue tasks
	state        *metrics.State
	lastSnapshot feed.Snapshot
}

// Option customises an EventProcessor.
type Option func(*EventProcessor)

// WithClock replaces the wall clock used for session timing.
func WithClock(now func() time.Time) Option {
	return func(p *EventProcessor) { p.now = now }
}

// NewEventProcessor creates a processor. A nil store or publisher disables
// that side effect.
func NewEventProcessor(cfg config.EngineConfig, store Store, publisher Publisher, opts ...Option) *EventProcessor {
	cfg = cfg.WithDefaults()
	if store == nil {
		store = nopStore{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}

	p := &EventProcessor{
		cfg:       cfg,
		tracker:   metrics.NewTracker(cfg),
		store:     store,
		publisher: publisher,
		queue:     NewQueue(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins a recording and returns its session id. Starting while
// already recording returns the current session.
func (p *EventProcessor) Start(ctx context.Context, meta report.Metadata) (string, error) {
	var sessionID string
	err := p.queue.Do(ctx, "start", func() error {
		if p.state != nil && p.state.Recording {
			sessionID = p.state.SessionID
			return nil
		}

		startedAt := p.now()
		sessionID = uuid.New().String()
		p.state = metrics.NewState(sessionID, startedAt, p.cfg.Source, meta)
		p.lastSnapshot = feed.BuildSnapshot(p.state.Report.Metrics)

		bg := context.Background()
		if err := p.store.SaveSessionState(bg, p.state); err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist session state")
		}
		if err := p.store.SaveStats(bg, sessionID, p.lastSnapshot); err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist stats")
		}
		p.publishStatus(bg, sessionID, feed.StatusRecording)

		log.Info().
			Str("session_id", sessionID).
			Str("product", meta.Product).
			Str("task", meta.Task).
			Msg("Recording started")
		return nil
	})
	return sessionID, err
}

// Stop ends the recording and returns the frozen report, or nil when
// nothing was recording. The report is stored before "stopped" is published.
func (p *EventProcessor) Stop(ctx context.Context) (*report.Report, error) {
	var final *report.Report
	err := p.queue.Do(ctx, "stop", func() error {
		st := p.state
		if st == nil || !st.Recording {
			return nil
		}

		final = metrics.Finalize(st, p.now())
		p.state = nil
		p.lastSnapshot = feed.BuildSnapshot(final.Metrics)

		bg := context.Background()
		if err := p.store.SaveStats(bg, st.SessionID, p.lastSnapshot); err != nil {
			log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to persist stats")
		}
		if err := p.store.SaveFinalizedReport(bg, st.SessionID, final); err != nil {
			// The persisted record still says recording; overwrite it with the
			// stopped state so a restart does not resume this session.
			if serr := p.store.SaveSessionState(bg, st); serr != nil {
				log.Error().Err(serr).Str("session_id", st.SessionID).Msg("Failed to persist stopped session state")
				if cerr := p.store.ClearSessionState(bg); cerr != nil {
					log.Error().Err(cerr).Str("session_id", st.SessionID).Msg("Failed to clear session state")
				}
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		p.publishStatus(bg, st.SessionID, feed.StatusStopped)

		if err := p.store.ClearSessionState(bg); err != nil {
			log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to clear session state")
		}

		log.Info().
			Str("session_id", st.SessionID).
			Int("clicks", final.Metrics.ClickCount.Total).
			Int("total_ms", final.Metrics.TimeOnTask.TotalMS).
			Float64("composite_score", final.Metrics.CompositeScore).
			Msg("Recording stopped")
		return nil
	})
	return final, err
}

// Dispatch queues an interaction event. Events arriving while nothing is
// recording are dropped.
func (p *EventProcessor) Dispatch(ev event.Event) {
	if ev == nil {
		return
	}
	if !p.queue.Submit(ev.Type(), func() error { return p.handle(ev) }) {
		log.Warn().Str("type", ev.Type()).Msg("Event dropped after shutdown")
	}
}

// Process implements the consumer's MessageProcessor: control messages
// drive the session, everything else is dispatched.
func (p *EventProcessor) Process(ctx context.Context, raw map[string]interface{}) error {
	result, err := transformer.TransformEvent(raw)
	if err != nil {
		return err
	}

	if result.Control != nil {
		switch result.Control.Kind {
		case event.TypeSessionStart:
			_, err = p.Start(ctx, result.Control.Metadata)
		case event.TypeSessionStop:
			_, err = p.Stop(ctx)
		}
		return err
	}

	p.Dispatch(result.Event)
	return nil
}

// Flush waits until every event queued so far has been applied.
func (p *EventProcessor) Flush() {
	if err := p.Sync(context.Background()); err != nil && !errors.Is(err, ErrQueueClosed) {
		log.Error().Err(err).Msg("Failed to flush event queue")
	}
}

// Sync waits for the tasks queued before it.
func (p *EventProcessor) Sync(ctx context.Context) error {
	return p.queue.Do(ctx, "sync", func() error { return nil })
}

// Current returns a copy of the in-progress report.
func (p *EventProcessor) Current(ctx context.Context) (*report.Report, bool, error) {
	var (
		current   *report.Report
		recording bool
	)
	err := p.queue.Do(ctx, "current", func() error {
		if p.state != nil && p.state.Recording {
			current = p.state.Report.Clone()
			recording = true
		}
		return nil
	})
	return current, recording, err
}

// Stats returns the last published snapshot and the session it belongs to.
func (p *EventProcessor) Stats(ctx context.Context) (feed.Snapshot, bool, error) {
	var (
		snap      feed.Snapshot
		recording bool
	)
	err := p.queue.Do(ctx, "stats", func() error {
		snap = make(feed.Snapshot, len(p.lastSnapshot))
		for k, v := range p.lastSnapshot {
			snap[k] = v
		}
		recording = p.state != nil && p.state.Recording
		return nil
	})
	return snap, recording, err
}

// Restore resumes a recording persisted by a previous process.
func (p *EventProcessor) Restore(ctx context.Context) error {
	return p.queue.Do(ctx, "restore", func() error {
		st, err := p.store.LoadSessionState(ctx)
		if err != nil {
			return err
		}
		if st == nil || !st.Recording || st.Report == nil {
			return nil
		}

		p.state = st
		p.lastSnapshot = feed.BuildSnapshot(st.Report.Metrics)
		log.Info().
			Str("session_id", st.SessionID).
			Time("started_at", st.StartedAt).
			Int("clicks", st.Report.Metrics.ClickCount.Total).
			Msg("Recording restored")
		return nil
	})
}

// Close drains the queue and stops the consumer goroutine.
func (p *EventProcessor) Close() {
	p.queue.Close()
}

func (p *EventProcessor) handle(ev event.Event) error {
	st := p.state
	if st == nil || !st.Recording {
		return nil
	}

	if err := p.tracker.Apply(st, ev); err != nil {
		return fmt.Errorf("%w: %v", transformer.ErrMalformedEvent, err)
	}

	snap := feed.BuildSnapshot(st.Report.Metrics)
	entries := feed.BuildEntries(st, ev, snap)
	p.lastSnapshot = snap

	ctx := context.Background()
	if err := p.store.SaveSessionState(ctx, st); err != nil {
		log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to persist session state")
	}
	if err := p.store.SaveStats(ctx, st.SessionID, snap); err != nil {
		log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to persist stats")
	}
	if err := p.publisher.PublishSnapshot(ctx, st.SessionID, snap); err != nil {
		log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to publish snapshot")
	}
	if err := p.publisher.PublishFeed(ctx, st.SessionID, entries); err != nil {
		log.Error().Err(err).Str("session_id", st.SessionID).Msg("Failed to publish feed")
	}

	log.Debug().
		Str("session_id", st.SessionID).
		Str("type", ev.Type()).
		Int("feed_entries", len(entries)).
		Msg("Event processed")
	return nil
}

func (p *EventProcessor) publishStatus(ctx context.Context, sessionID, status string) {
	err := p.publisher.PublishStatus(ctx, feed.Status{
		SessionID: sessionID,
		Status:    status,
		Timestamp: p.now(),
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Str("status", status).Msg("Failed to publish status")
	}
}
