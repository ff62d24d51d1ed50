package messaging

import (
	"context"
	"encoding/json"
	"time"
)

// ChannelPrefix namespaces every channel published by the service
const ChannelPrefix = "rx."

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope published for every outbox event
type Message struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Channel returns the channel an event type is published on
func Channel(eventType string) string {
	return ChannelPrefix + eventType
}
