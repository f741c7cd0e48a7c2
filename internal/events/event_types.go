package events

import (
	"time"

	"github.com/salonkit/salon-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReservationCreated       EventType = "reservation_created"
	EventReservationStatusChanged EventType = "reservation_status_changed"
	EventMessageReceived          EventType = "message_received"
	EventStaffLockedOut           EventType = "staff_locked_out"
)

// Actor identifies the staff member (if any) who triggered the event.
type Actor struct {
	StaffID *string `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReservationCreatedPayload payload.
type ReservationCreatedPayload struct {
	ReservationID string    `json:"reservation_id"`
	CustomerID    string    `json:"customer_id"`
	StaffID       *string   `json:"staff_id,omitempty"`
	ServiceID     *string   `json:"service_id,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
}

// ReservationStatusChangedPayload payload.
type ReservationStatusChangedPayload struct {
	ReservationID string                   `json:"reservation_id"`
	OldStatus     domain.ReservationStatus `json:"old_status"`
	NewStatus     domain.ReservationStatus `json:"new_status"`
}

// MessageReceivedPayload payload.
type MessageReceivedPayload struct {
	MessageID   string                `json:"message_id"`
	CustomerID  string                `json:"customer_id"`
	Channel     domain.MessageChannel `json:"channel"`
	BodyPreview string                `json:"body_preview"`
}

// StaffLockedOutPayload payload.
type StaffLockedOutPayload struct {
	StaffID     string    `json:"staff_id"`
	Email       string    `json:"email"`
	LockedUntil time.Time `json:"locked_until"`
}
