package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department_created"
	EventDepartmentUpdated EventType = "department_updated"
	EventDepartmentDeleted EventType = "department_deleted"
)

// AllDepartmentEvents lists every department lifecycle event type.
var AllDepartmentEvents = []EventType{
	EventDepartmentCreated,
	EventDepartmentUpdated,
	EventDepartmentDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	DepartmentID int64     `json:"department_id"`
	Timestamp    time.Time `json:"timestamp"`
	Payload      any       `json:"payload,omitempty"`
}

// NewEvent stamps a fresh event with an ID and the current time.
func NewEvent(eventType EventType, departmentID int64, payload any) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		DepartmentID: departmentID,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}
