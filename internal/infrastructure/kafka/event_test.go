package kafka

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e, err := NewEvent("SN-123456", "OrderPlaced", map[string]any{"order_id": "SN-123456"})

	require.NoError(t, err)
	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.Equal(t, "SN-123456", e.OrderID)
	assert.Equal(t, "OrderPlaced", e.Type)
	assert.Equal(t, SourceStorefront, e.Source)
	assert.Equal(t, SchemaVersion, e.Version)
	assert.JSONEq(t, `{"order_id":"SN-123456"}`, string(e.Data))
	assert.False(t, e.Timestamp.IsZero())
}

func TestNewEvent_Rejects(t *testing.T) {
	_, err := NewEvent("", "OrderPlaced", nil)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = NewEvent("SN-1", "", nil)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = NewEvent("SN-1", "OrderPlaced", make(chan int))
	assert.Error(t, err)
}

func TestParseEvent(t *testing.T) {
	e, err := NewEvent("SN-123456", "OrderPlaced", map[string]int{"qty": 2})
	require.NoError(t, err)
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	got, err := ParseEvent(raw)

	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "SN-123456", got.OrderID)
	var payload struct{ Qty int }
	require.NoError(t, got.Decode(&payload))
	assert.Equal(t, 2, payload.Qty)
}

func TestParseEvent_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"not json", `{oops`, ErrMalformedEvent},
		{"no type", `{"order_id":"SN-1","version":1}`, ErrMalformedEvent},
		{"no order", `{"type":"OrderPlaced","version":1}`, ErrMalformedEvent},
		{"newer schema", `{"order_id":"SN-1","type":"OrderPlaced","version":2}`, ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.value))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEvent_DecodeNamesTheOrder(t *testing.T) {
	e := Event{OrderID: "SN-9", Type: "OrderPlaced", Data: json.RawMessage(`[1]`)}

	var v struct{}
	err := e.Decode(&v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SN-9")
}
