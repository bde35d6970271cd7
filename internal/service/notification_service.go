package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/it-helpdesk/internal/config"
	"github.com/spec-kit/it-helpdesk/internal/domain"
	"github.com/spec-kit/it-helpdesk/internal/events"
	"github.com/spec-kit/it-helpdesk/internal/notify"
)

// NotificationService emits email notifications for lifecycle events.
// Sends are best-effort: failures are logged and never surface to the
// transition that triggered them.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleStatusChanged)
}

// handleTicketCreated notifies the fixed triage recipient.
func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.TriageRecipient) == "" {
		return nil
	}
	ticket := event.Ticket
	fields := baseFields(&ticket)
	fields["attachments_count"] = strconv.Itoa(len(ticket.Attachments))
	n.send(ctx, n.cfg.CreatedTemplateID, n.cfg.TriageRecipient, fields, event)
	return nil
}

// handleTicketAssigned notifies the assignee.
func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	ticket := event.Ticket
	if ticket.AssignedTo == nil {
		return nil
	}
	fields := baseFields(&ticket)
	fields["assigned_to"] = *ticket.AssignedTo
	fields["assigned_by"] = event.Actor
	if ticket.Priority != nil {
		fields["priority"] = string(*ticket.Priority)
	}
	n.send(ctx, n.cfg.AssignmentTemplateID, assigneeAddress(*ticket.AssignedTo), fields, event)
	return nil
}

// handleStatusChanged notifies the assignee of progress and resolution.
func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	ticket := event.Ticket
	if ticket.AssignedTo == nil {
		return nil
	}
	fields := baseFields(&ticket)
	fields["updated_by"] = event.Actor
	if ticket.Resolution != nil {
		fields["resolution"] = *ticket.Resolution
	}
	n.send(ctx, n.cfg.StatusTemplateID, assigneeAddress(*ticket.AssignedTo), fields, event)
	return nil
}

func (n *NotificationService) send(ctx context.Context, templateID, recipient string, fields map[string]string, event events.Event) {
	if n.mailer == nil || templateID == "" || recipient == "" {
		return
	}
	if err := n.mailer.Send(ctx, templateID, recipient, fields); err != nil {
		n.logger.Warn("notification send failed",
			zap.String("ticket_id", event.Ticket.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	n.logger.Info("notification sent",
		zap.String("ticket_id", event.Ticket.TicketID),
		zap.String("event_type", string(event.Type)))
}

func baseFields(ticket *domain.Ticket) map[string]string {
	return map[string]string{
		"ticket_id":         ticket.TicketID,
		"employee_name":     ticket.Name,
		"employee_id":       ticket.EmployeeID,
		"employee_email":    ticket.Email,
		"location":          ticket.Location,
		"issue_description": ticket.IssueDesc,
		"status":            string(ticket.Status),
	}
}

// assigneeAddress maps a staff username to its notification address. The
// directory is small and fixed, so the corporate alias convention suffices.
func assigneeAddress(username string) string {
	return username + "@it-helpdesk.local"
}
