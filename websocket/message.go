package websocket

import (
	"encoding/json"
)

const MessageEntityChanged = "entity_changed"

// Message is the envelope of every frame sent to a dashboard.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewMessage(messageType string, payload interface{}) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: messageType, Payload: payloadJSON})
}
