package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fitops/studio-support/internal/config"
	"github.com/fitops/studio-support/internal/events"
	"github.com/fitops/studio-support/internal/triage"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
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
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleTicketEscalated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventSLAWarning, n.handleSLAAlert)
	n.dispatcher.Subscribe(events.EventSLABreached, n.handleSLAAlert)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated",
		zap.String("ticket_id", event.TicketID),
		zap.String("department", payload.Department),
		zap.String("priority", string(payload.Priority)),
	)
	n.sendEmailStub(ctx, event, []string{payload.Department})
	return nil
}

func (n *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	recipients := recipientsForScope(payload.Notify, payload.EscalateTo)
	n.logger.Info("TicketEscalated",
		zap.String("ticket_id", event.TicketID),
		zap.String("subtype", payload.Subtype),
		zap.String("escalate_to", payload.EscalateTo),
		zap.Strings("recipients", recipients),
	)
	n.sendEmailStub(ctx, event, recipients)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSLAAlert(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SLAAlertPayload)
	if !ok {
		return nil
	}
	// Breaches go up the category's escalation path; warnings stay with the
	// owning department.
	recipients := []string{payload.Department}
	if event.Type == events.EventSLABreached {
		recipients = append(recipients, triage.DeptManagement)
	}
	n.logger.Warn("SLAAlert",
		zap.String("kind", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Strings("recipients", recipients),
	)
	n.sendEmailStub(ctx, event, recipients)
	n.sendWebhookStub(ctx, event)
	return nil
}

// recipientsForScope expands a notify scope into department names.
func recipientsForScope(scope triage.NotifyScope, department string) []string {
	switch scope {
	case triage.NotifyAll:
		return triage.Departments()
	case triage.NotifyManagement:
		return []string{triage.DeptManagement}
	default:
		return []string{department}
	}
}

func (n *NotificationService) sendEmailStub(ctx context.Context, event events.Event, recipients []string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Strings("to", recipients),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
