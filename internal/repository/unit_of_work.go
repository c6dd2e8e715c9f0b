package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository types serve
// standalone calls and transactional units of work.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the stores visible inside a unit of work.
type Repositories struct {
	Tickets TicketRepository
	Agents  AgentRepository
}

// UnitOfWork runs a set of repository mutations as one atomic unit. A status
// change or reassignment touches the ticket and one or two agent records;
// an observer must never see those disagree.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a transaction-backed unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) Run(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repos := Repositories{
		Tickets: NewTicketRepositoryWithQuerier(tx),
		Agents:  NewAgentRepositoryWithQuerier(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
