package domain

import "time"

// Agent models a support worker carrying denormalized workload counters.
// Counters are mutated only through atomic deltas issued by the balancer,
// the lifecycle state machine and the reassignment coordinator.
type Agent struct {
	ID               string
	Name             string
	Email            string
	TicketCount      int
	TicketOpen       int
	TicketInProgress int
	TicketResolved   int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Load is the balancing weight: tickets currently Open or In Progress.
// Resolved tickets do not count toward load.
func (a Agent) Load() int {
	return a.TicketOpen + a.TicketInProgress
}

// CounterDeltas describes an atomic adjustment to an agent's workload
// counters. Deltas are applied in a single storage statement, never as a
// read-modify-write.
type CounterDeltas struct {
	TicketCount      int
	TicketOpen       int
	TicketInProgress int
	TicketResolved   int
}

// Add combines two delta sets.
func (d CounterDeltas) Add(other CounterDeltas) CounterDeltas {
	return CounterDeltas{
		TicketCount:      d.TicketCount + other.TicketCount,
		TicketOpen:       d.TicketOpen + other.TicketOpen,
		TicketInProgress: d.TicketInProgress + other.TicketInProgress,
		TicketResolved:   d.TicketResolved + other.TicketResolved,
	}
}

// IsZero reports whether the deltas would leave every counter unchanged.
func (d CounterDeltas) IsZero() bool {
	return d == CounterDeltas{}
}

// BucketDeltas adjusts only the status bucket matching status. Closed has no
// bucket and yields zero deltas.
func BucketDeltas(status TicketStatus, delta int) CounterDeltas {
	switch status {
	case TicketStatusOpen:
		return CounterDeltas{TicketOpen: delta}
	case TicketStatusInProgress:
		return CounterDeltas{TicketInProgress: delta}
	case TicketStatusResolved:
		return CounterDeltas{TicketResolved: delta}
	}
	return CounterDeltas{}
}

// AssignmentDeltas is the counter adjustment for assigning a freshly created
// ticket: the lifetime count and the Open bucket both grow by one.
func AssignmentDeltas() CounterDeltas {
	return CounterDeltas{TicketCount: 1, TicketOpen: 1}
}

// RebalanceDeltas moves one unit from the bucket matching old to the bucket
// matching new. The lifetime count is unaffected by status changes.
func RebalanceDeltas(old, new TicketStatus) CounterDeltas {
	return BucketDeltas(old, -1).Add(BucketDeltas(new, 1))
}
