package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler exposes ticket operations.
type TicketsHandler struct {
	tickets    *service.TicketService
	lifecycle  *service.LifecycleService
	assignment *service.AssignmentService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, lifecycle *service.LifecycleService, assignment *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{
		tickets:    tickets,
		lifecycle:  lifecycle,
		assignment: assignment,
	}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.TicketCategory(req.Category),
		CustomerID:  req.CustomerID,
		Attachments: req.Attachments,
	}
	ticket, outcome, err := h.tickets.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{
		Ticket:     ticketResponse(ticket),
		Assignment: string(outcome),
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.lifecycle.ApplyStatus(c.Context(), c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Reassign PUT /tickets/:id/reassign.
func (h *TicketsHandler) Reassign(c *fiber.Ctx) error {
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.NewAgentID) == "" {
		return apperrors.NewValidationError("new_agent_id required", nil)
	}
	ticket, err := h.assignment.Reassign(c.Context(), c.Params("id"), req.NewAgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListByAgent GET /agents/:id/tickets.
func (h *TicketsHandler) ListByAgent(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListByAgent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListResolvedByAgent GET /agents/:id/tickets/resolved. With from/to query
// parameters the listing narrows to tickets resolved inside the range; with
// today=true it narrows to the current day.
func (h *TicketsHandler) ListResolvedByAgent(c *fiber.Ctx) error {
	agentID := c.Params("id")
	if c.Query("today") == "true" {
		tickets, err := h.tickets.ListResolvedTodayByAgent(c.Context(), agentID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
	}
	if from, to, ok, err := parseRange(c); err != nil {
		return err
	} else if ok {
		tickets, err := h.tickets.ListResolvedBetween(c.Context(), agentID, from, to)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
	}
	tickets, err := h.tickets.ListResolvedByAgent(c.Context(), agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListAssignedBetween GET /agents/:id/tickets/assigned.
func (h *TicketsHandler) ListAssignedBetween(c *fiber.Ctx) error {
	from, to, ok, err := parseRange(c)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("from and to query parameters required", nil)
	}
	tickets, err := h.tickets.ListAssignedBetween(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListByCustomer GET /customers/:id/tickets.
func (h *TicketsHandler) ListByCustomer(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListByCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

func parseRange(c *fiber.Ctx) (from, to time.Time, ok bool, err error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	from, parseErr := time.Parse(time.RFC3339, fromStr)
	if parseErr != nil {
		return time.Time{}, time.Time{}, false, apperrors.NewValidationError("invalid from timestamp", map[string]any{"from": fromStr})
	}
	to, parseErr = time.Parse(time.RFC3339, toStr)
	if parseErr != nil {
		return time.Time{}, time.Time{}, false, apperrors.NewValidationError("invalid to timestamp", map[string]any{"to": toStr})
	}
	return from, to, true, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        string(ticket.Category),
		Status:          string(ticket.Status),
		Attachments:     ticket.Attachments,
		AssignedAgentID: ticket.AssignedAgentID,
		CustomerID:      ticket.CustomerID,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}
