package amqp

import (
	"encoding/json"
	"time"
)

// DocumentChangedMessage announces a committed document write. It carries
// no document body; consumers re-read the store.
type DocumentChangedMessage struct {
	Path      string    `json:"path"`
	Revision  int64     `json:"revision"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDocumentChangedMessage stamps a message with the current time.
func NewDocumentChangedMessage(path string, revision int64, origin string) *DocumentChangedMessage {
	return &DocumentChangedMessage{
		Path:      path,
		Revision:  revision,
		Origin:    origin,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DocumentChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DocumentChangedMessageFromJSON parses a message body.
func DocumentChangedMessageFromJSON(data []byte) (*DocumentChangedMessage, error) {
	var msg DocumentChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
