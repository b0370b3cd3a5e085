// Package kafka carries order events from the storefront API to the notifier.
// Every event of one order is keyed by its order id, so it lands on a single
// partition and is consumed in the order it was published.
package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersion is bumped when the envelope changes incompatibly.
	SchemaVersion = 1
	// SourceStorefront marks events published by the storefront API.
	SourceStorefront = "storefront-api"

	typeHeader = "event-type"
)

var (
	ErrMalformedEvent     = errors.New("malformed order event")
	ErrUnsupportedVersion = errors.New("unsupported order event version")
)

// Event is the envelope on the order topic.
type Event struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(orderID, eventType string, data any) (Event, error) {
	if orderID == "" || eventType == "" {
		return Event{}, fmt.Errorf("%w: order id and type are required", ErrMalformedEvent)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Type:      eventType,
		Source:    SourceStorefront,
		Version:   SchemaVersion,
		Data:      raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ParseEvent decodes a message value. Envelopes from a newer schema are refused
// rather than half-read.
func ParseEvent(value []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if e.Type == "" || e.OrderID == "" {
		return Event{}, fmt.Errorf("%w: missing order id or type", ErrMalformedEvent)
	}
	if e.Version > SchemaVersion {
		return Event{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	}
	return e, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload for %s: %w", e.Type, e.OrderID, err)
	}
	return nil
}
