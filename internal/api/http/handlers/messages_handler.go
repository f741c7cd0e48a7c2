package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/salonkit/salon-service/internal/api/dto"
	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	"github.com/salonkit/salon-service/internal/service"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// MessagesHandler manages conversation endpoints plus the inbound webhook.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// ReceiveInbound POST /webhooks/messages. Channel gateways post received
// customer messages here; the payload carries the tenant explicitly because
// no staff session is involved.
func (h *MessagesHandler) ReceiveInbound(c *fiber.Ctx) error {
	var req dto.InboundMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TenantID == "" || req.CustomerID == "" || strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("tenant_id, customer_id, body required", nil)
	}

	sentAt := time.Time{}
	if req.SentAt != nil {
		sentAt = *req.SentAt
	}
	message, err := h.service.RecordInbound(c.Context(), req.TenantID, req.CustomerID, req.Channel, req.Body, sentAt)
	if err != nil {
		return err
	}
	return created(c, messageResponse(message))
}

// SendOutbound POST /messages.
func (h *MessagesHandler) SendOutbound(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.OutboundMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" || strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("customer_id and body required", nil)
	}

	message, err := h.service.SendOutbound(c.Context(), principal.Staff, req.CustomerID, req.Channel, req.Body)
	if err != nil {
		return err
	}
	return created(c, messageResponse(message))
}

// ListMessages GET /messages.
func (h *MessagesHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.MessageFilter{
		UnreadOnly: parseBoolQuery(c, "unread", false),
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if channelStr := c.Query("channel"); channelStr != "" {
		channel := domain.MessageChannel(strings.ToUpper(channelStr))
		filter.Channel = &channel
	}
	filter.Limit, filter.Offset = pagination(c)

	messages, err := h.service.ListMessages(c.Context(), principal.Staff, filter)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, messageResponse(&messages[i]))
	}
	return success(c, items)
}

// MarkRead POST /messages/:id/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.MarkRead(c.Context(), principal.Staff, c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"read": true})
}

func messageResponse(message *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         message.ID,
		CustomerID: message.CustomerID,
		Channel:    message.Channel,
		Direction:  message.Direction,
		Body:       message.Body,
		Read:       message.Read,
		SentAt:     message.SentAt,
		CreatedAt:  message.CreatedAt,
	}
}
