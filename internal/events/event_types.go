package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// AllEmployeeEvents lists every employee lifecycle event type.
var AllEmployeeEvents = []EventType{EventEmployeeCreated, EventEmployeeUpdated, EventEmployeeDeleted}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RecordID  string      `json:"record_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EmployeeSnapshotPayload carries the record state after a create or update.
type EmployeeSnapshotPayload struct {
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Department string `json:"department"`
}

// EmployeeUpdatedPayload payload.
type EmployeeUpdatedPayload struct {
	PreviousEmployeeID string                  `json:"previous_employee_id"`
	Current            EmployeeSnapshotPayload `json:"current"`
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	EmployeeID string `json:"employee_id"`
}
