package events

import "time"

// Event represents a domain event that can be published and consumed
type Event interface {
	// GetType returns the type of the event
	GetType() string
	// GetSubjectID returns the session or registry id this event concerns
	GetSubjectID() string
	// GetTimestamp returns when the event occurred
	GetTimestamp() time.Time
	// GetPayload returns the event-specific data
	GetPayload() interface{}
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	Type      string      `json:"type"`
	SubjectID string      `json:"subjectId"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GetType returns the event type
func (e *BaseEvent) GetType() string {
	return e.Type
}

// GetSubjectID returns the subject id (a session id for drop events, a
// registry version string for registry events)
func (e *BaseEvent) GetSubjectID() string {
	return e.SubjectID
}

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

// GetPayload returns the event payload
func (e *BaseEvent) GetPayload() interface{} {
	return e.Payload
}

// NewBaseEvent creates a new base event
func NewBaseEvent(eventType, subjectID string, payload interface{}) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}