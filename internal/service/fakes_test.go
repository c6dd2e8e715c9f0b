package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/worker"
)

// memStore backs the in-memory repositories used by the service tests.
// Records are stored by value so callers never alias store state.
type memStore struct {
	mu         sync.Mutex
	seq        int
	tickets    map[string]domain.Ticket
	agents     map[string]domain.Agent
	agentOrder []string
	customers  map[string]domain.Customer

	// incrementErr forces IncrementCounters to fail for the given agent id.
	incrementErr map[string]error
	// updateErr forces ticket Update to fail for the given ticket id.
	updateErr map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		tickets:      make(map[string]domain.Ticket),
		agents:       make(map[string]domain.Agent),
		customers:    make(map[string]domain.Customer),
		incrementErr: make(map[string]error),
		updateErr:    make(map[string]error),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addAgent(agent domain.Agent) domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agent.ID == "" {
		agent.ID = s.nextID("agent")
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	s.agents[agent.ID] = agent
	s.agentOrder = append(s.agentOrder, agent.ID)
	return agent
}

func (s *memStore) addCustomer(customer domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer.ID == "" {
		customer.ID = s.nextID("customer")
	}
	s.customers[customer.ID] = customer
	return customer
}

func (s *memStore) addTicket(ticket domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = s.nextID("ticket")
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = ticket.CreatedAt
	}
	s.tickets[ticket.ID] = ticket
	return ticket
}

func (s *memStore) agent(id string) domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agents[id]
}

func (s *memStore) ticket(id string) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[id]
}

func (s *memStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

type memTicketRepo struct {
	store *memStore
}

func (r *memTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket.ID = r.store.nextID("ticket")
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.updateErr[ticket.ID]; err != nil {
		return err
	}
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.store.tickets {
		if filter.AgentID != nil {
			if ticket.AssignedAgentID == nil || *ticket.AssignedAgentID != *filter.AgentID {
				continue
			}
		}
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if ticket.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.UpdatedFrom != nil && ticket.UpdatedAt.Before(*filter.UpdatedFrom) {
			continue
		}
		if filter.UpdatedTo != nil && ticket.UpdatedAt.After(*filter.UpdatedTo) {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (r *memTicketRepo) CountByAgentAndStatus(ctx context.Context, agentID string, status domain.TicketStatus) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, ticket := range r.store.tickets {
		if ticket.AssignedAgentID != nil && *ticket.AssignedAgentID == agentID && ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memTicketRepo) DistinctAssignedAgents(ctx context.Context) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	seen := make(map[string]struct{})
	var ids []string
	for _, ticket := range r.store.tickets {
		if ticket.AssignedAgentID == nil {
			continue
		}
		if _, ok := seen[*ticket.AssignedAgentID]; ok {
			continue
		}
		seen[*ticket.AssignedAgentID] = struct{}{}
		ids = append(ids, *ticket.AssignedAgentID)
	}
	return ids, nil
}

type memAgentRepo struct {
	store *memStore
}

func (r *memAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	agent.ID = r.store.nextID("agent")
	now := time.Now()
	agent.CreatedAt = now
	agent.UpdatedAt = now
	r.store.agents[agent.ID] = *agent
	r.store.agentOrder = append(r.store.agentOrder, agent.ID)
	return nil
}

func (r *memAgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	agent, ok := r.store.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &agent, nil
}

func (r *memAgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make([]domain.Agent, 0, len(r.store.agentOrder))
	for _, id := range r.store.agentOrder {
		result = append(result, r.store.agents[id])
	}
	return result, nil
}

func (r *memAgentRepo) IncrementCounters(ctx context.Context, agentID string, deltas domain.CounterDeltas) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.incrementErr[agentID]; err != nil {
		return err
	}
	agent, ok := r.store.agents[agentID]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.TicketCount += deltas.TicketCount
	agent.TicketOpen += deltas.TicketOpen
	agent.TicketInProgress += deltas.TicketInProgress
	agent.TicketResolved += deltas.TicketResolved
	agent.UpdatedAt = time.Now()
	r.store.agents[agentID] = agent
	return nil
}

type memCustomerRepo struct {
	store *memStore
}

func (r *memCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	customer.ID = r.store.nextID("customer")
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	customer, ok := r.store.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

// memUnitOfWork snapshots the store before running fn and restores the
// snapshot when fn fails, mirroring a transaction rollback.
type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	u.store.mu.Lock()
	ticketsSnap := make(map[string]domain.Ticket, len(u.store.tickets))
	for k, v := range u.store.tickets {
		ticketsSnap[k] = v
	}
	agentsSnap := make(map[string]domain.Agent, len(u.store.agents))
	for k, v := range u.store.agents {
		agentsSnap[k] = v
	}
	orderSnap := append([]string(nil), u.store.agentOrder...)
	u.store.mu.Unlock()

	repos := repository.Repositories{
		Tickets: &memTicketRepo{store: u.store},
		Agents:  &memAgentRepo{store: u.store},
	}
	if err := fn(repos); err != nil {
		u.store.mu.Lock()
		u.store.tickets = ticketsSnap
		u.store.agents = agentsSnap
		u.store.agentOrder = orderSnap
		u.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeQueue struct {
	mu     sync.Mutex
	jobs   []worker.Job
	accept bool
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{accept: true}
}

func (q *fakeQueue) Enqueue(job worker.Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.accept {
		return false
	}
	q.jobs = append(q.jobs, job)
	return true
}

func (q *fakeQueue) captured() []worker.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]worker.Job(nil), q.jobs...)
}
