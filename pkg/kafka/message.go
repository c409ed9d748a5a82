package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the transport-level unit exchanged over Kafka. The key is the
// property id so every event for one property lands on the same partition
// and stays ordered.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"
)

// NewMessage builds a message with a generated event id and timestamp.
func NewMessage(key string, eventType string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	now := time.Now()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}, nil
}

func (m *Message) WithHeader(key, value string) *Message {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
	return m
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) GetHeader(key string) (string, bool) {
	value, exists := m.Headers[key]
	return value, exists
}

func (m *Message) EventType() string {
	return m.Headers[HeaderEventType]
}

func (m *Message) EventID() string {
	return m.Headers[HeaderEventID]
}

// MessageHandler processes one consumed message. A nil return commits the
// offset; an error triggers retry and eventually the DLQ.
type MessageHandler func(ctx context.Context, msg Message) error
