package processor

import (
	"context"

	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/metrics"
	"github.com/uxbench/uxbench/internal/report"
)

// Store persists session state so a recording survives restarts and
// finished reports can be collected after the "stopped" notification.
type Store interface {
	SaveSessionState(ctx context.Context, st *metrics.State) error
	LoadSessionState(ctx context.Context) (*metrics.State, error)
	ClearSessionState(ctx context.Context) error
	SaveStats(ctx context.Context, sessionID string, snap feed.Snapshot) error
	SaveFinalizedReport(ctx context.Context, sessionID string, r *report.Report) error
}

// Publisher pushes display updates and lifecycle notifications.
type Publisher interface {
	PublishSnapshot(ctx context.Context, sessionID string, snap feed.Snapshot) error
	PublishFeed(ctx context.Context, sessionID string, entries []feed.Entry) error
	PublishStatus(ctx context.Context, status feed.Status) error
}

type nopStore struct{}

func (nopStore) SaveSessionState(context.Context, *metrics.State) error { return nil }
func (nopStore) LoadSessionState(context.Context) (*metrics.State, error) {
	return nil, nil
}
func (nopStore) ClearSessionState(context.Context) error { return nil }
func (nopStore) SaveStats(context.Context, string, feed.Snapshot) error { return nil }
func (nopStore) SaveFinalizedReport(context.Context, string, *report.Report) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishSnapshot(context.Context, string, feed.Snapshot) error { return nil }
func (nopPublisher) PublishFeed(context.Context, string, []feed.Entry) error { return nil }
func (nopPublisher) PublishStatus(context.Context, feed.Status) error { return nil }
