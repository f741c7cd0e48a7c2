package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// MessageService manages customer conversations.
type MessageService struct {
	messages   repository.MessageRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(messageRepo repository.MessageRepository, customerRepo repository.CustomerRepository, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{messages: messageRepo, customers: customerRepo, dispatcher: dispatcher}
}

// RecordInbound stores a message received from an external channel webhook.
// Delivery gateways are black-box collaborators; this just persists and acks.
func (s *MessageService) RecordInbound(ctx context.Context, tenantID, customerID string, channel domain.MessageChannel, body string, sentAt time.Time) (*domain.Message, error) {
	if !domain.ValidMessageChannel(channel) {
		return nil, apperrors.NewValidationError("invalid channel", map[string]any{"channel": channel})
	}
	if _, err := s.customers.GetByID(ctx, tenantID, customerID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	message := &domain.Message{
		TenantID:   tenantID,
		CustomerID: customerID,
		Channel:    channel,
		Direction:  domain.MessageDirectionInbound,
		Body:       body,
		SentAt:     sentAt,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		preview := truncateRunes(message.Body, 80)
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessageReceived,
			TenantID:  tenantID,
			Timestamp: time.Now(),
			Payload: events.MessageReceivedPayload{
				MessageID:   message.ID,
				CustomerID:  message.CustomerID,
				Channel:     message.Channel,
				BodyPreview: preview,
			},
		})
	}

	return message, nil
}

// SendOutbound stores a staff-authored message. Actual channel delivery is
// stubbed through the notification service.
func (s *MessageService) SendOutbound(ctx context.Context, actor *domain.StaffAccount, customerID string, channel domain.MessageChannel, body string) (*domain.Message, error) {
	if !domain.ValidMessageChannel(channel) {
		return nil, apperrors.NewValidationError("invalid channel", map[string]any{"channel": channel})
	}
	if _, err := s.customers.GetByID(ctx, actor.TenantID, customerID); err != nil {
		return nil, apperrors.MapError(err)
	}

	message := &domain.Message{
		TenantID:   actor.TenantID,
		CustomerID: customerID,
		Channel:    channel,
		Direction:  domain.MessageDirectionOutbound,
		Body:       body,
		Read:       true,
		SentAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}
	return message, nil
}

// ListMessages searches the actor's tenant.
func (s *MessageService) ListMessages(ctx context.Context, actor *domain.StaffAccount, filter repository.MessageFilter) ([]domain.Message, error) {
	list, err := s.messages.List(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MarkRead flags an inbound message as handled.
func (s *MessageService) MarkRead(ctx context.Context, actor *domain.StaffAccount, id string) error {
	if err := s.messages.MarkRead(ctx, actor.TenantID, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// truncateRunes shortens s to at most max runes without splitting a
// multi-byte sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
