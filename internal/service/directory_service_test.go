package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

func TestRegisterAgent(t *testing.T) {
	store := newMemStore()
	svc := NewAgentService(&memAgentRepo{store: store})

	agent, err := svc.RegisterAgent(context.Background(), "  Grace ", "grace@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "Grace", agent.Name)
	assert.Zero(t, agent.TicketCount)
	assert.Zero(t, agent.TicketOpen)
}

func TestRegisterAgentMissingFields(t *testing.T) {
	svc := NewAgentService(&memAgentRepo{store: newMemStore()})

	_, err := svc.RegisterAgent(context.Background(), "", " ")

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeMissingFields, domainErr.Code)
	assert.Equal(t, []string{"name", "email"}, domainErr.Details["fields"])
}

func TestGetAgentNotFound(t *testing.T) {
	svc := NewAgentService(&memAgentRepo{store: newMemStore()})

	_, err := svc.GetAgent(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAgentNotFound, apperrors.CodeOf(err))
}

func TestListAgentsPreservesOrder(t *testing.T) {
	store := newMemStore()
	first := store.addAgent(domain.Agent{Name: "First"})
	second := store.addAgent(domain.Agent{Name: "Second"})
	svc := NewAgentService(&memAgentRepo{store: store})

	agents, err := svc.ListAgents(context.Background())

	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, first.ID, agents[0].ID)
	assert.Equal(t, second.ID, agents[1].ID)
}

func TestRegisterCustomer(t *testing.T) {
	store := newMemStore()
	svc := NewCustomerService(&memCustomerRepo{store: store})

	customer, err := svc.RegisterCustomer(context.Background(), "Pat", "pat@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, "pat@example.com", customer.Email)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(&memCustomerRepo{store: newMemStore()})

	_, err := svc.GetCustomer(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCustomerNotFound, apperrors.CodeOf(err))
}
