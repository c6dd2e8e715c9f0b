package service

import (
	"math/rand"
	"sort"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AssignmentOutcome tags how the balancer arrived at its pick. The tag is
// observability-only; nothing downstream branches on it.
type AssignmentOutcome string

const (
	OutcomeColdStart AssignmentOutcome = "cold_start"
	OutcomeLeastBusy AssignmentOutcome = "least_busy"
	OutcomeRandom    AssignmentOutcome = "random"
)

// Balancer chooses the agent to receive a newly created ticket. Selection is
// pure: it never touches storage, the caller passes a snapshot of the agent
// population and records the decision atomically afterwards.
type Balancer struct {
	intn func(n int) int
}

// NewBalancer creates a balancer using the default random source.
func NewBalancer() *Balancer {
	return &Balancer{intn: rand.Intn}
}

// SelectAgent picks exactly one agent from candidates.
//
// Agents that have never received a ticket are preferred and picked
// uniformly at random, spreading initial load before any busyness
// comparison. Otherwise the agent with the lowest Open+InProgress load wins;
// ties resolve to the earliest agent in the candidates order, which must be
// the directory's stable enumeration order.
func (b *Balancer) SelectAgent(candidates []domain.Agent, assigned map[string]struct{}) (*domain.Agent, AssignmentOutcome, error) {
	if len(candidates) == 0 {
		return nil, "", apperrors.NewNoAgentsAvailable()
	}

	var unassigned []int
	for i, agent := range candidates {
		if _, ok := assigned[agent.ID]; !ok {
			unassigned = append(unassigned, i)
		}
	}
	if len(unassigned) > 0 {
		pick := candidates[unassigned[b.intn(len(unassigned))]]
		return &pick, OutcomeColdStart, nil
	}

	ranked := make([]domain.Agent, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Load() < ranked[j].Load()
	})
	if len(ranked) > 0 {
		winner := ranked[0]
		return &winner, OutcomeLeastBusy, nil
	}

	// Unreachable while candidates is non-empty; kept as a guard so a
	// selection always exists.
	pick := candidates[b.intn(len(candidates))]
	return &pick, OutcomeRandom, nil
}
