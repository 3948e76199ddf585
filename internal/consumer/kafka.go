package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/uxbench/uxbench/internal/config"
)

// MessageProcessor receives decoded messages from a topic.
type MessageProcessor interface {
	Process(ctx context.Context, msg map[string]interface{}) error
	Flush()
}

// KafkaConsumer feeds one topic into a MessageProcessor. Offsets are committed
// after every message, whether or not it was usable, so a poison message
// never stalls the group.
type KafkaConsumer struct {
	reader    *kafka.Reader
	processor MessageProcessor
}

// NewKafkaConsumer creates a consumer for the named topic ("events", "status").
func NewKafkaConsumer(cfg config.KafkaConfig, topicName string, processor MessageProcessor) (*KafkaConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka consumer needs at least one broker")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic(topicName),
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        250 * time.Millisecond,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &KafkaConsumer{
		reader:    reader,
		processor: processor,
	}, nil
}

// Start reads until ctx is cancelled.
func (c *KafkaConsumer) Start(ctx context.Context) {
	cfg := c.reader.Config()
	log.Info().
		Str("topic", cfg.Topic).
		Str("group", cfg.GroupID).
		Msg("Starting Kafka consumer")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", cfg.Topic).Msg("Kafka consumer stopped")
				return
			}
			log.Error().Err(err).Str("topic", cfg.Topic).Msg("Failed to fetch message")
			continue
		}

		c.handle(ctx, msg)
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error().
				Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Failed to commit message")
		}
	}
}

// handle decodes one record and hands it on. Tombstones and undecodable
// values are logged and skipped.
func (c *KafkaConsumer) handle(ctx context.Context, msg kafka.Message) {
	if len(msg.Value) == 0 {
		log.Debug().Str("key", string(msg.Key)).Msg("Skipping empty message")
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		log.Error().
			Err(err).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Str("value", string(msg.Value)).
			Msg("Failed to parse message")
		return
	}

	if err := c.processor.Process(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("key", string(msg.Key)).
			Int64("offset", msg.Offset).
			Msg("Failed to process message")
	}
}

// Close flushes the processor and leaves the group.
func (c *KafkaConsumer) Close() error {
	log.Info().Str("topic", c.reader.Config().Topic).Msg("Closing Kafka consumer")
	c.processor.Flush()
	return c.reader.Close()
}
