package dto

import (
	"time"

	"github.com/salonkit/salon-service/internal/domain"
)

// ReservationRequest payload for create/update.
type ReservationRequest struct {
	CustomerID string    `json:"customer_id"`
	StaffID    *string   `json:"staff_id"`
	ServiceID  *string   `json:"service_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Note       string    `json:"note"`
}

// ReservationStatusRequest advances the booking lifecycle.
type ReservationStatusRequest struct {
	Status domain.ReservationStatus `json:"status"`
}

// ReservationResponse response.
type ReservationResponse struct {
	ID         string                   `json:"id"`
	CustomerID string                   `json:"customer_id"`
	StaffID    *string                  `json:"staff_id"`
	ServiceID  *string                  `json:"service_id"`
	StartsAt   time.Time                `json:"starts_at"`
	EndsAt     time.Time                `json:"ends_at"`
	Status     domain.ReservationStatus `json:"status"`
	Note       string                   `json:"note"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}
