package dto

import (
	"time"

	"github.com/salonkit/salon-service/internal/domain"
)

// InboundMessageRequest is the webhook-shaped payload for received messages.
type InboundMessageRequest struct {
	TenantID   string                `json:"tenant_id"`
	CustomerID string                `json:"customer_id"`
	Channel    domain.MessageChannel `json:"channel"`
	Body       string                `json:"body"`
	SentAt     *time.Time            `json:"sent_at"`
}

// OutboundMessageRequest is a staff-authored message.
type OutboundMessageRequest struct {
	CustomerID string                `json:"customer_id"`
	Channel    domain.MessageChannel `json:"channel"`
	Body       string                `json:"body"`
}

// MessageResponse response.
type MessageResponse struct {
	ID         string                  `json:"id"`
	CustomerID string                  `json:"customer_id"`
	Channel    domain.MessageChannel   `json:"channel"`
	Direction  domain.MessageDirection `json:"direction"`
	Body       string                  `json:"body"`
	Read       bool                    `json:"read"`
	SentAt     time.Time               `json:"sent_at"`
	CreatedAt  time.Time               `json:"created_at"`
}
