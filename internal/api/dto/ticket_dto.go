package dto

import (
	"time"
)

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	CustomerID  string   `json:"customer_id"`
	Attachments []string `json:"attachments"`
}

// UpdateStatusRequest carries a requested status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReassignRequest names the receiving agent.
type ReassignRequest struct {
	NewAgentID string `json:"new_agent_id"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	Attachments     []string  `json:"attachments"`
	AssignedAgentID *string   `json:"assigned_agent_id,omitempty"`
	CustomerID      string    `json:"customer_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateTicketResponse carries the created ticket and the assignment
// outcome tag.
type CreateTicketResponse struct {
	Ticket     TicketResponse `json:"ticket"`
	Assignment string         `json:"assignment"`
}
