package events

import (
	"encoding/json"
	"time"
)

type Envelope struct {
	EventType   string          `json:"event_type"`
	RoomID      string          `json:"room_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

func NewEnvelope(eventType, roomID string, payload interface{}) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{
		EventType:  eventType,
		RoomID:     roomID,
		OccurredAt: time.Now(),
		Payload:    raw,
	}
}

func (e Envelope) Encode() []byte {
	raw, _ := json.Marshal(e)
	return raw
}
