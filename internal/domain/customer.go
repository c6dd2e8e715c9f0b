package domain

import "time"

// Customer is the requester of a ticket. Identity fields only; customers are
// managed externally.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
