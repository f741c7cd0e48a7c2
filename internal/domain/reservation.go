package domain

import "time"

// ReservationStatus tracks the booking lifecycle.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
)

// ValidReservationStatus reports membership in the closed status set.
func ValidReservationStatus(status ReservationStatus) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCompleted,
		ReservationStatusCancelled, ReservationStatusNoShow:
		return true
	}
	return false
}

// Reservation is a booked time slot for a customer, optionally assigned to a
// staff member and a menu service.
type Reservation struct {
	ID         string
	TenantID   string
	CustomerID string
	StaffID    *string
	ServiceID  *string
	StartsAt   time.Time
	EndsAt     time.Time
	Status     ReservationStatus
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Blocking reports whether the reservation occupies its staff slot. Cancelled
// and no-show bookings release the slot.
func (r *Reservation) Blocking() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
