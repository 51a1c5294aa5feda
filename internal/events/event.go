package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	JobID() string // empty for batch-level events
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Job       string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) JobID() string         { return e.Job }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, jobID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Job:       jobID,
		Timestamp: time.Now(),
	}
}
