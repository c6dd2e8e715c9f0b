package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReassigned    EventType = "ticket_reassigned"
)

// Event represents a domain event emitted by services after the underlying
// mutation committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID string                `json:"customer_id"`
	AgentID    string                `json:"agent_id"`
	Category   domain.TicketCategory `json:"category"`
	Assignment string                `json:"assignment"`
	Title      string                `json:"title"`
}

// TicketStatusChangedPayload payload. Agent contact details ride along so
// the notification side does not re-query the directory.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	CustomerID string              `json:"customer_id"`
	AgentName  string              `json:"agent_name"`
	AgentEmail string              `json:"agent_email"`
}

// TicketReassignedPayload payload.
type TicketReassignedPayload struct {
	OldAgentID string `json:"old_agent_id"`
	NewAgentID string `json:"new_agent_id"`
	CustomerID string `json:"customer_id"`
}
