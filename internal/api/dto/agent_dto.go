package dto

import "time"

// CreateAgentRequest registers an agent in the directory.
type CreateAgentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AgentResponse is the wire shape of an agent including workload counters.
type AgentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	TicketCount      int       `json:"ticket_count"`
	TicketOpen       int       `json:"ticket_open"`
	TicketInProgress int       `json:"ticket_in_progress"`
	TicketResolved   int       `json:"ticket_resolved"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
