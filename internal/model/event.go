package model

import "time"

// CollectionEvents stores persisted WARN/ERROR log records.
const CollectionEvents = "events"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event is a persisted log record in the events collection.
type Event struct {
	ID        string            `bson:"_id,omitempty" json:"id"`
	Level     string            `bson:"level" json:"level"`
	Message   string            `bson:"message" json:"message"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"created_at"`
}
