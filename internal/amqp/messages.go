package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried on the bus.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeMessage notifies other processes that a collection changed. It is a
// lightweight invalidation: consumers re-query the store for the current
// full set rather than applying the message as a diff.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	DocumentID string    `json:"document_id"`
	Op         string    `json:"op"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change notification for one document.
func NewChangeMessage(collection, documentID, op string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		DocumentID: documentID,
		Op:         op,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
