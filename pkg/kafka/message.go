package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Header keys shared by all event producers and consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Message is one event destined for a topic. Key selects the partition; events
// for the same slot share a key so consumers see them in order.
type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// NewMessage builds a message with a generated event ID and a JSON-encoded
// payload.
func NewMessage(key, eventType, source string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
