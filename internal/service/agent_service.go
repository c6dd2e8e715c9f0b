package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AgentService manages the agent directory. Identity fields only: counters
// start at zero and are never mutated through this service.
type AgentService struct {
	agents repository.AgentRepository
}

// NewAgentService constructs the service.
func NewAgentService(agents repository.AgentRepository) *AgentService {
	return &AgentService{agents: agents}
}

// RegisterAgent adds an agent to the directory.
func (s *AgentService) RegisterAgent(ctx context.Context, name, email string) (*domain.Agent, error) {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}
	agent := &domain.Agent{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// GetAgent fetches one agent.
func (s *AgentService) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAgentNotFound(agentID)
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ListAgents returns the full directory in its stable enumeration order.
func (s *AgentService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}
