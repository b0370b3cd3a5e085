package kafka

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one order event. Its error is logged, never retried.
type EventHandler func(ctx context.Context, e Event) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const fetchRetryDelay = time.Second

// Consumer reads the order topic as part of a consumer group and commits each
// message once it has been handled.
type Consumer struct {
	reader     messageReader
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	return &Consumer{reader: reader, retryDelay: fetchRetryDelay}
}

// Consume runs until ctx is cancelled. Malformed messages and handler failures
// are logged and committed so one bad event cannot stall the group.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Consumer] Fetch failed, retrying in %s: %v", c.retryDelay, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
			continue
		}

		event, err := ParseEvent(msg.Value)
		switch {
		case err != nil:
			log.Printf("[Consumer] Skipping %s/%d@%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
		default:
			if err := handler(ctx, event); err != nil {
				log.Printf("[Consumer] %s for order %s failed: %v", event.Type, event.OrderID, err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Consumer] Commit of %s/%d@%d failed: %v", msg.Topic, msg.Partition, msg.Offset, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
