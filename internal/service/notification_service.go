package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/events"
)

// NotificationService emits notifications for domain events. Channel gateways
// (LINE, Instagram, email) are external collaborators; delivery here is a
// logged stub.
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
	n.dispatcher.Subscribe(events.EventReservationCreated, n.handleReservationCreated)
	n.dispatcher.Subscribe(events.EventReservationStatusChanged, n.handleReservationStatusChanged)
	n.dispatcher.Subscribe(events.EventMessageReceived, n.handleMessageReceived)
	n.dispatcher.Subscribe(events.EventStaffLockedOut, n.handleStaffLockedOut)
}

func (n *NotificationService) handleReservationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ReservationCreated", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReservationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ReservationStatusChanged", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMessageReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("MessageReceived", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStaffLockedOut(ctx context.Context, event events.Event) error {
	n.logger.Warn("StaffLockedOut", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)))
}
