package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AgentRepository handles persistence for agents and their workload
// counters.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	// List returns the full agent population in a stable enumeration order
	// so least-busy ties resolve the same way on every call.
	List(ctx context.Context) ([]domain.Agent, error)
	// IncrementCounters applies deltas as a single atomic statement. It is
	// never a read-modify-write, so concurrent increments cannot lose
	// updates.
	IncrementCounters(ctx context.Context, agentID string, deltas domain.CounterDeltas) error
}

type agentRepository struct {
	db Querier
}

// NewAgentRepository instantiates the repository over a pool.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{db: pool}
}

// NewAgentRepositoryWithQuerier instantiates the repository over an
// arbitrary querier, typically a transaction.
func NewAgentRepositoryWithQuerier(db Querier) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (name, email)
        VALUES ($1,$2)
        RETURNING id, ticket_count, ticket_open, ticket_in_progress, ticket_resolved, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		agent.Name,
		agent.Email,
	).Scan(
		&agent.ID,
		&agent.TicketCount,
		&agent.TicketOpen,
		&agent.TicketInProgress,
		&agent.TicketResolved,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `
        SELECT id, name, email, ticket_count, ticket_open, ticket_in_progress, ticket_resolved, created_at, updated_at
        FROM agents WHERE id=$1`
	var agent domain.Agent
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&agent.TicketCount,
		&agent.TicketOpen,
		&agent.TicketInProgress,
		&agent.TicketResolved,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	const query = `
        SELECT id, name, email, ticket_count, ticket_open, ticket_in_progress, ticket_resolved, created_at, updated_at
        FROM agents ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Email,
			&agent.TicketCount,
			&agent.TicketOpen,
			&agent.TicketInProgress,
			&agent.TicketResolved,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}

func (r *agentRepository) IncrementCounters(ctx context.Context, agentID string, deltas domain.CounterDeltas) error {
	const query = `
        UPDATE agents
        SET ticket_count = ticket_count + $1,
            ticket_open = ticket_open + $2,
            ticket_in_progress = ticket_in_progress + $3,
            ticket_resolved = ticket_resolved + $4,
            updated_at = NOW()
        WHERE id = $5`
	cmd, err := r.db.Exec(ctx, query,
		deltas.TicketCount,
		deltas.TicketOpen,
		deltas.TicketInProgress,
		deltas.TicketResolved,
		agentID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
