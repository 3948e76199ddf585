package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/metrics"
	"github.com/uxbench/uxbench/internal/report"
)

// Finalized reports are kept for a week; the archiver normally collects them
// within seconds.
const finalizedTTL = 7 * 24 * time.Hour

// Store keeps the recorder's persistence records in Redis.
type Store struct {
	redis        *redis.Client
	keys         Keys
	historyLimit int64
}

// NewStore creates a Redis backed store.
func NewStore(cfg config.RedisConfig) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewStoreWithClient(rdb, cfg)
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(rdb *redis.Client, cfg config.RedisConfig) *Store {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 50
	}
	return &Store{
		redis:        rdb,
		keys:         NewKeys(cfg.Prefix),
		historyLimit: limit,
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// SaveSessionState writes the whole in-progress session.
func (s *Store) SaveSessionState(ctx context.Context, st *metrics.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.keys.SessionState(), data, 0).Err()
}

// LoadSessionState returns the persisted session, or nil when none exists.
func (s *Store) LoadSessionState(ctx context.Context) (*metrics.State, error) {
	data, err := s.redis.Get(ctx, s.keys.SessionState()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var st metrics.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ClearSessionState removes the in-progress record.
func (s *Store) ClearSessionState(ctx context.Context) error {
	return s.redis.Del(ctx, s.keys.SessionState()).Err()
}

// SaveStats writes the latest display snapshot for late-attaching viewers.
func (s *Store) SaveStats(ctx context.Context, sessionID string, snap feed.Snapshot) error {
	data, err := json.Marshal(StatsRecord{
		SessionID: sessionID,
		Snapshot:  snap,
		UpdatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.keys.Stats(), data, 0).Err()
}

// LoadStats returns the last stats record, or nil when none exists.
func (s *Store) LoadStats(ctx context.Context) (*StatsRecord, error) {
	data, err := s.redis.Get(ctx, s.keys.Stats()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec StatsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveFinalizedReport stores the frozen report and records it in the run
// history. Both writes go through one transaction so the report is complete
// before the caller announces the stop.
func (s *Store) SaveFinalizedReport(ctx context.Context, sessionID string, r *report.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.keys.FinalizedReport(sessionID), data, finalizedTTL)
	pipe.LPush(ctx, s.keys.Reports(), sessionID)
	pipe.LTrim(ctx, s.keys.Reports(), 0, s.historyLimit-1)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to store finalized report in Redis")
		return err
	}
	return nil
}

// LoadFinalizedReport reads one stored report, or nil when it has expired or
// was never written.
func (s *Store) LoadFinalizedReport(ctx context.Context, sessionID string) (*report.Report, error) {
	data, err := s.redis.Get(ctx, s.keys.FinalizedReport(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RecentReports returns up to n of the most recent finalized reports,
// newest first. Expired entries are skipped.
func (s *Store) RecentReports(ctx context.Context, n int64) ([]*report.Report, error) {
	if n <= 0 {
		return nil, nil
	}

	ids, err := s.redis.LRange(ctx, s.keys.Reports(), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	reports := make([]*report.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.LoadFinalizedReport(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("Failed to load finalized report")
			continue
		}
		if r == nil {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Close releases the Redis client.
func (s *Store) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
