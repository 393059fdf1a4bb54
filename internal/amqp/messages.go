package amqp

import (
	"encoding/json"
	"time"

	"apbdes/internal/core"
)

// ExportEvent announces a finished download. The worker journals it.
type ExportEvent struct {
	Record    core.ExportRecord `json:"record"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewExportEvent wraps rec in an event stamped now.
func NewExportEvent(rec core.ExportRecord) *ExportEvent {
	return &ExportEvent{
		Record:    rec,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportEventFromJSON decodes and validates an event.
func ExportEventFromJSON(data []byte) (*ExportEvent, error) {
	var msg ExportEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Record.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
