package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketCategory classifies the subject of a ticket.
type TicketCategory string

const (
	TicketCategoryTechnical TicketCategory = "Technical"
	TicketCategoryBilling   TicketCategory = "Billing"
	TicketCategoryGeneral   TicketCategory = "General"
	TicketCategoryProduct   TicketCategory = "Product"
)

// Valid reports whether the category is a known value.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryTechnical, TicketCategoryBilling, TicketCategoryGeneral, TicketCategoryProduct:
		return true
	}
	return false
}

// Ticket is the aggregate for customer support requests. A persisted ticket
// always carries an assigned agent; AssignedAgentID is nil only between
// validation and a successful creation.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	Category        TicketCategory
	Status          TicketStatus
	Attachments     []string
	AssignedAgentID *string
	CustomerID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
