package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

func newAssignmentService(store *memStore, dispatcher events.Dispatcher) *AssignmentService {
	return NewAssignmentService(AssignmentDependencies{
		TicketRepo: &memTicketRepo{store: store},
		AgentRepo:  &memAgentRepo{store: store},
		UnitOfWork: &memUnitOfWork{store: store},
		Dispatcher: dispatcher,
	})
}

func TestReassignTicketNotFound(t *testing.T) {
	store := newMemStore()
	store.addAgent(domain.Agent{ID: "b"})
	svc := newAssignmentService(store, nil)

	_, err := svc.Reassign(context.Background(), "missing", "b")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTicketNotFound, apperrors.CodeOf(err))
}

func TestReassignNewAgentNotFound(t *testing.T) {
	store := newMemStore()
	ticket, _ := seedAssignedTicket(store, domain.TicketStatusOpen)
	svc := newAssignmentService(store, nil)

	_, err := svc.Reassign(context.Background(), ticket.ID, "missing")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAgentNotFound, apperrors.CodeOf(err))
	assert.Equal(t, *store.ticket(ticket.ID).AssignedAgentID, *ticket.AssignedAgentID)
}

func TestReassignMovesBucketAndLifetimeCount(t *testing.T) {
	store := newMemStore()
	ticket, oldAgent := seedAssignedTicket(store, domain.TicketStatusOpen)
	newAgent := store.addAgent(domain.Agent{Name: "Nadia", Email: "nadia@example.com", TicketCount: 3, TicketResolved: 3})
	svc := newAssignmentService(store, nil)

	updated, err := svc.Reassign(context.Background(), ticket.ID, newAgent.ID)

	require.NoError(t, err)
	require.NotNil(t, updated.AssignedAgentID)
	assert.Equal(t, newAgent.ID, *updated.AssignedAgentID)
	assert.Equal(t, newAgent.ID, *store.ticket(ticket.ID).AssignedAgentID)

	oldAfter := store.agent(oldAgent.ID)
	assert.Zero(t, oldAfter.TicketOpen)
	// Lifetime count records every ticket ever routed to the agent; handing
	// one off does not rewrite history.
	assert.Equal(t, 1, oldAfter.TicketCount)

	newAfter := store.agent(newAgent.ID)
	assert.Equal(t, 1, newAfter.TicketOpen)
	assert.Equal(t, 4, newAfter.TicketCount)
	assert.Equal(t, 3, newAfter.TicketResolved)
}

func TestReassignMovesInProgressBucket(t *testing.T) {
	store := newMemStore()
	ticket, oldAgent := seedAssignedTicket(store, domain.TicketStatusInProgress)
	newAgent := store.addAgent(domain.Agent{Name: "Nadia", Email: "nadia@example.com"})
	svc := newAssignmentService(store, nil)

	_, err := svc.Reassign(context.Background(), ticket.ID, newAgent.ID)

	require.NoError(t, err)
	assert.Zero(t, store.agent(oldAgent.ID).TicketInProgress)
	assert.Equal(t, 1, store.agent(newAgent.ID).TicketInProgress)
	assert.Equal(t, domain.TicketStatusInProgress, store.ticket(ticket.ID).Status)
}

func TestReassignRollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	ticket, oldAgent := seedAssignedTicket(store, domain.TicketStatusOpen)
	newAgent := store.addAgent(domain.Agent{Name: "Nadia"})
	store.incrementErr[newAgent.ID] = errors.New("connection reset")
	svc := newAssignmentService(store, nil)

	_, err := svc.Reassign(context.Background(), ticket.ID, newAgent.ID)

	require.Error(t, err)
	assert.Equal(t, oldAgent.ID, *store.ticket(ticket.ID).AssignedAgentID)
	assert.Equal(t, 1, store.agent(oldAgent.ID).TicketOpen)
	assert.Zero(t, store.agent(newAgent.ID).TicketOpen)
	assert.Zero(t, store.agent(newAgent.ID).TicketCount)
}

func TestReassignConservesBucketTotals(t *testing.T) {
	store := newMemStore()
	ticket, oldAgent := seedAssignedTicket(store, domain.TicketStatusOpen)
	mid := store.addAgent(domain.Agent{Name: "Mid"})
	last := store.addAgent(domain.Agent{Name: "Last"})
	svc := newAssignmentService(store, nil)
	ctx := context.Background()

	_, err := svc.Reassign(ctx, ticket.ID, mid.ID)
	require.NoError(t, err)
	_, err = svc.Reassign(ctx, ticket.ID, last.ID)
	require.NoError(t, err)

	totalOpen := 0
	for _, id := range []string{oldAgent.ID, mid.ID, last.ID} {
		totalOpen += store.agent(id).TicketOpen
	}
	assert.Equal(t, 1, totalOpen)
	assert.Equal(t, 1, store.agent(last.ID).TicketOpen)
}

func TestReassignPublishesEvent(t *testing.T) {
	store := newMemStore()
	ticket, oldAgent := seedAssignedTicket(store, domain.TicketStatusOpen)
	newAgent := store.addAgent(domain.Agent{Name: "Nadia"})
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventTicketReassigned, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})
	svc := newAssignmentService(store, dispatcher)

	_, err := svc.Reassign(context.Background(), ticket.ID, newAgent.ID)
	require.NoError(t, err)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketReassignedPayload)
	require.True(t, ok)
	assert.Equal(t, oldAgent.ID, payload.OldAgentID)
	assert.Equal(t, newAgent.ID, payload.NewAgentID)
	assert.Equal(t, ticket.CustomerID, payload.CustomerID)
}
