package session

import "github.com/uxbench/uxbench/internal/feed"

// Keys names the Redis records under one prefix.
type Keys struct {
	prefix string
}

func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = "uxbench"
	}
	return Keys{prefix: prefix}
}

func (k Keys) SessionState() string { return k.prefix + ":session_state" }

func (k Keys) Stats() string { return k.prefix + ":stats" }

func (k Keys) FinalizedReport(sessionID string) string {
	return k.prefix + ":finalized_report:" + sessionID
}

func (k Keys) Reports() string { return k.prefix + ":reports" }

// StatsRecord is the stored form of the last snapshot.
type StatsRecord struct {
	SessionID string        `json:"session_id"`
	Snapshot  feed.Snapshot `json:"snapshot"`
	UpdatedAt int64         `json:"updated_at"`
}
