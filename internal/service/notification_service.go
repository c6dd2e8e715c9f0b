package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/worker"
)

const notificationSubject = "Ticket Update"

// NotificationQueue accepts notification jobs for asynchronous delivery.
type NotificationQueue interface {
	Enqueue(job worker.Job) bool
}

// NotificationService turns domain events into customer notifications. It
// runs after the triggering mutation committed; a failure here never rolls
// that mutation back.
type NotificationService struct {
	dispatcher events.Dispatcher
	customers  repository.CustomerRepository
	queue      NotificationQueue
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, customers repository.CustomerRepository, queue NotificationQueue, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		customers:  customers,
		queue:      queue,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the events that notify customers.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketReassigned, n.handleReassigned)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	body := statusMessage(event.TicketID, payload)
	n.send(ctx, event, payload.CustomerID, body)
	return nil
}

func (n *NotificationService) handleReassigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReassignedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Your ticket with ID %s has been reassigned to a new agent.", event.TicketID)
	n.send(ctx, event, payload.CustomerID, body)
	return nil
}

func (n *NotificationService) send(ctx context.Context, event events.Event, customerID, body string) {
	customer, err := n.customers.GetByID(ctx, customerID)
	if err != nil {
		n.logger.Warn("notification skipped: customer lookup failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("customer_id", customerID),
			zap.Error(err))
		return
	}
	if customer.Email == "" {
		return
	}
	job := worker.Job{
		Contact: customer.Email,
		Subject: notificationSubject,
		Body:    body,
	}
	if !n.queue.Enqueue(job) {
		n.logger.Warn("notification dropped: queue full",
			zap.String("ticket_id", event.TicketID),
			zap.String("contact", customer.Email))
	}
}

// statusMessage builds the per-status customer message. The reopen template
// exists even though the lifecycle table has no edge back to Open; only
// external administrative action could take it there.
func statusMessage(ticketID string, payload events.TicketStatusChangedPayload) string {
	switch payload.NewStatus {
	case domain.TicketStatusInProgress:
		return fmt.Sprintf("Your ticket with ID %s is now in progress. You can contact your assigned agent, %s, at %s for further clarification.",
			ticketID, payload.AgentName, payload.AgentEmail)
	case domain.TicketStatusResolved:
		return fmt.Sprintf("Good news! Your ticket with ID %s has been resolved. Thank you for your patience. If you need further assistance, please contact our support team or raise a new ticket.",
			ticketID)
	case domain.TicketStatusOpen:
		return fmt.Sprintf("Your ticket with ID %s has been reopened. If you have additional information, please provide it to your assigned agent or contact our support team.",
			ticketID)
	default:
		return fmt.Sprintf("Your ticket with ID %s has been updated to %s.", ticketID, payload.NewStatus)
	}
}
