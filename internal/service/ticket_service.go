package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/cache"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketService coordinates ticket creation and queries.
type TicketService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	uow        repository.UnitOfWork
	balancer   *Balancer
	cache      *cache.TicketCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	UnitOfWork repository.UnitOfWork
	Balancer   *Balancer
	Cache      *cache.TicketCache
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes a ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	CustomerID  string
	Attachments []string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		uow:        deps.UnitOfWork,
		balancer:   deps.Balancer,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates the input, routes the ticket through the balancer
// and persists it together with the chosen agent's counter increments as one
// atomic step. When no agents exist, nothing is persisted.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, AssignmentOutcome, error) {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		missing = append(missing, "customer_id")
	}
	if len(missing) > 0 {
		return nil, "", apperrors.NewMissingFields(missing)
	}

	category := input.Category
	if category == "" {
		category = domain.TicketCategoryGeneral
	}
	if !category.Valid() {
		return nil, "", apperrors.NewValidationError("unknown ticket category", map[string]any{"category": category})
	}

	candidates, err := s.agents.List(ctx)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	assignedIDs, err := s.tickets.DistinctAssignedAgents(ctx)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	assigned := make(map[string]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}

	choice, outcome, err := s.balancer.SelectAgent(candidates, assigned)
	if err != nil {
		return nil, "", err
	}

	ticket := &domain.Ticket{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Category:        category,
		Status:          domain.TicketStatusOpen,
		Attachments:     input.Attachments,
		AssignedAgentID: &choice.ID,
		CustomerID:      input.CustomerID,
	}

	err = s.uow.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Agents.IncrementCounters(ctx, choice.ID, domain.AssignmentDeltas()); err != nil {
			return err
		}
		return repos.Tickets.Create(ctx, ticket)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewAgentNotFound(choice.ID)
		}
		return nil, "", apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerID: ticket.CustomerID,
			AgentID:    choice.ID,
			Category:   ticket.Category,
			Assignment: string(outcome),
			Title:      ticket.Title,
		},
	})
	return ticket, outcome, nil
}

// GetTicket fetches a ticket by id, serving cached snapshots when present.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if ticket, ok := s.cache.Get(ctx, ticketID); ok {
		return ticket, nil
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, ticket)
	return ticket, nil
}

// ListByAgent returns tickets currently assigned to the agent.
func (s *TicketService) ListByAgent(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{AgentID: &agentID})
}

// ListResolvedByAgent returns the agent's resolved tickets.
func (s *TicketService) ListResolvedByAgent(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{
		AgentID:  &agentID,
		Statuses: []domain.TicketStatus{domain.TicketStatusResolved},
	})
}

// ListResolvedTodayByAgent returns tickets the agent resolved since the
// start of the current day.
func (s *TicketService) ListResolvedTodayByAgent(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.list(ctx, repository.TicketFilter{
		AgentID:     &agentID,
		Statuses:    []domain.TicketStatus{domain.TicketStatusResolved},
		UpdatedFrom: &startOfDay,
	})
}

// ListAssignedBetween returns tickets assigned to the agent created within
// the given range.
func (s *TicketService) ListAssignedBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{
		AgentID:     &agentID,
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
}

// ListResolvedBetween returns the agent's tickets resolved within the given
// range.
func (s *TicketService) ListResolvedBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{
		AgentID:     &agentID,
		Statuses:    []domain.TicketStatus{domain.TicketStatusResolved},
		UpdatedFrom: &from,
		UpdatedTo:   &to,
	})
}

// ListByCustomer returns a customer's tickets.
func (s *TicketService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{CustomerID: &customerID})
}

func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
