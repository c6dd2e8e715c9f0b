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

// allowedTransitions is the lifecycle table. Transitions are edges, not
// states: requesting the current status again is invalid. Resolved is
// terminal; Closed is reachable only by external administrative action and
// has no inbound edge here.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// LifecycleService validates and applies ticket status transitions, keeping
// the assigned agent's status buckets in step with the ticket.
type LifecycleService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	uow        repository.UnitOfWork
	cache      *cache.TicketCache
	dispatcher events.Dispatcher
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	UnitOfWork repository.UnitOfWork
	Cache      *cache.TicketCache
	Dispatcher events.Dispatcher
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		uow:        deps.UnitOfWork,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// ApplyStatus moves a ticket to newStatus. The ticket update and the agent
// counter rebalance commit together or not at all; the customer notification
// that follows is best-effort.
func (s *LifecycleService) ApplyStatus(ctx context.Context, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if newStatus == "" {
		return nil, apperrors.NewMissingStatus()
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.MapError(err)
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	if ticket.AssignedAgentID == nil {
		return nil, apperrors.NewAgentNotFound("")
	}
	agent, err := s.agents.GetByID(ctx, *ticket.AssignedAgentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAgentNotFound(*ticket.AssignedAgentID)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus

	err = s.uow.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.Agents.IncrementCounters(ctx, agent.ID, domain.RebalanceDeltas(oldStatus, newStatus))
	})
	if err != nil {
		ticket.Status = oldStatus
		return nil, apperrors.MapError(err)
	}

	s.cache.Invalidate(ctx, ticket.ID)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			CustomerID: ticket.CustomerID,
			AgentName:  agent.Name,
			AgentEmail: agent.Email,
		},
	})
	return ticket, nil
}
