package events

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated     EventType = "customer_created"
	EventFollowUpScheduled   EventType = "follow_up_scheduled"
	EventFollowUpRescheduled EventType = "follow_up_rescheduled"
	EventFollowUpCleared     EventType = "follow_up_cleared"
	EventFollowUpCompleted   EventType = "follow_up_completed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	SubjectID string      `json:"subject_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CustomerID string      `json:"customer_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// FollowUpChangedPayload payload for all follow-up transitions.
type FollowUpChangedPayload struct {
	Previous  *string `json:"previous,omitempty"`
	Next      *string `json:"next,omitempty"`
	Narrative string  `json:"narrative"`
}
