package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/cache"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AssignmentService moves tickets between agents, keeping both agents'
// workload counters consistent with the ticket record.
type AssignmentService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	uow        repository.UnitOfWork
	cache      *cache.TicketCache
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators for the assignment service.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	UnitOfWork repository.UnitOfWork
	Cache      *cache.TicketCache
	Dispatcher events.Dispatcher
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		uow:        deps.UnitOfWork,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Reassign hands the ticket to newAgentID. One unit of the ticket's current
// status bucket moves from the old agent to the new one, and the new agent's
// lifetime count grows; the old agent's lifetime count is untouched. All
// three record mutations commit as a single unit.
func (s *AssignmentService) Reassign(ctx context.Context, ticketID, newAgentID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.AssignedAgentID == nil {
		return nil, apperrors.NewAgentNotFound("")
	}

	newAgent, err := s.agents.GetByID(ctx, newAgentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAgentNotFound(newAgentID)
		}
		return nil, apperrors.MapError(err)
	}
	oldAgentID := *ticket.AssignedAgentID
	oldAgent, err := s.agents.GetByID(ctx, oldAgentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAgentNotFound(oldAgentID)
		}
		return nil, apperrors.MapError(err)
	}

	bucket := ticket.Status
	ticket.AssignedAgentID = &newAgent.ID

	err = s.uow.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Agents.IncrementCounters(ctx, oldAgent.ID, domain.BucketDeltas(bucket, -1)); err != nil {
			return err
		}
		gain := domain.BucketDeltas(bucket, 1).Add(domain.CounterDeltas{TicketCount: 1})
		if err := repos.Agents.IncrementCounters(ctx, newAgent.ID, gain); err != nil {
			return err
		}
		return repos.Tickets.Update(ctx, ticket)
	})
	if err != nil {
		ticket.AssignedAgentID = &oldAgentID
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, ticket.ID)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketReassigned,
		TicketID: ticket.ID,
		Payload: events.TicketReassignedPayload{
			OldAgentID: oldAgent.ID,
			NewAgentID: newAgent.ID,
			CustomerID: ticket.CustomerID,
		},
	})
	return ticket, nil
}
