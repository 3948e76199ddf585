package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/feed"
)

// Topic names the producer writes to.
var topicNames = []string{"feed", "snapshots", "status"}

// KafkaProducer publishes display updates and lifecycle notifications.
type KafkaProducer struct {
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka producer: no brokers configured")
	}

	writers := make(map[string]*kafka.Writer, len(topicNames))
	for _, name := range topicNames {
		w := &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic(name),
			Balancer:     &kafka.Hash{},
			BatchSize:    100,
			BatchTimeout: time.Millisecond * 20,
			Async:        true,
		}
		// Status drives the archiver, which reads the finalized report only
		// after it sees "stopped", so it is written synchronously.
		if name == "status" {
			w.Async = false
			w.BatchSize = 1
			w.RequiredAcks = kafka.RequireAll
		}
		writers[name] = w
	}

	return &KafkaProducer{writers: writers}, nil
}

type snapshotMessage struct {
	SessionID string        `json:"session_id"`
	Snapshot  feed.Snapshot `json:"snapshot"`
}

func (p *KafkaProducer) PublishSnapshot(ctx context.Context, sessionID string, snap feed.Snapshot) error {
	return p.write(ctx, "snapshots", sessionID, snapshotMessage{SessionID: sessionID, Snapshot: snap})
}

func (p *KafkaProducer) PublishFeed(ctx context.Context, sessionID string, entries []feed.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(sessionID), Value: data})
	}
	return p.writers["feed"].WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) PublishStatus(ctx context.Context, status feed.Status) error {
	return p.write(ctx, "status", status.SessionID, status)
}

func (p *KafkaProducer) write(ctx context.Context, name, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return p.writers[name].WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

func (p *KafkaProducer) Close() error {
	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
