package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order events. The hash balancer keeps each order on one partition.
type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer}
}

// PublishEvent wraps data in an Event envelope keyed by orderID.
func (p *Producer) PublishEvent(ctx context.Context, orderID, eventType string, data any) error {
	event, err := NewEvent(orderID, eventType, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(orderID),
		Value:   value,
		Headers: []kafka.Header{{Key: typeHeader, Value: []byte(eventType)}},
		Time:    event.Timestamp,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
