package events

import (
	"encoding/json"
	"time"

	"foodtracker/internal/store"
)

// CategoryChangedMessage is published after every applied category mutation.
// It carries the full category so a consumer can persist it without calling
// back.
type CategoryChangedMessage struct {
	Op           string    `json:"op"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Group        string    `json:"group"`
	PreviousName string    `json:"previous_name,omitempty"`
	Position     int       `json:"position"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewCategoryChangedMessage converts a store change into its wire form.
func NewCategoryChangedMessage(c store.CategoryChange) *CategoryChangedMessage {
	msg := &CategoryChangedMessage{
		Op:        string(c.Op),
		ID:        c.Category.ID,
		Name:      c.Category.Name,
		Group:     string(c.Category.Group),
		Position:  c.Position,
		Timestamp: c.At,
	}
	if c.Op == store.OpEdited && c.Previous.Name != c.Category.Name {
		msg.PreviousName = c.Previous.Name
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *CategoryChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CategoryChangedMessageFromJSON decodes a message produced by ToJSON.
func CategoryChangedMessageFromJSON(data []byte) (*CategoryChangedMessage, error) {
	var msg CategoryChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
