package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// ReservationService coordinates booking workflows.
type ReservationService struct {
	reservations repository.ReservationRepository
	customers    repository.CustomerRepository
	services     repository.SalonServiceRepository
	staff        repository.StaffRepository
	dispatcher   events.Dispatcher
}

// ReservationDependencies bundles repositories for the reservation service.
type ReservationDependencies struct {
	ReservationRepo  repository.ReservationRepository
	CustomerRepo     repository.CustomerRepository
	SalonServiceRepo repository.SalonServiceRepository
	StaffRepo        repository.StaffRepository
	Dispatcher       events.Dispatcher
}

// NewReservationService constructs the service.
func NewReservationService(deps ReservationDependencies) *ReservationService {
	return &ReservationService{
		reservations: deps.ReservationRepo,
		customers:    deps.CustomerRepo,
		services:     deps.SalonServiceRepo,
		staff:        deps.StaffRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// ReservationCreateInput describes a booking request.
type ReservationCreateInput struct {
	CustomerID string
	StaffID    *string
	ServiceID  *string
	StartsAt   time.Time
	EndsAt     time.Time
	Note       string
}

// CreateReservation books a slot after validating that every referenced
// entity belongs to the actor's tenant and the assigned staff member is free.
func (s *ReservationService) CreateReservation(ctx context.Context, actor *domain.StaffAccount, input ReservationCreateInput) (*domain.Reservation, error) {
	if !input.StartsAt.Before(input.EndsAt) {
		return nil, apperrors.NewValidationError("starts_at must be before ends_at", nil)
	}

	if _, err := s.customers.GetByID(ctx, actor.TenantID, input.CustomerID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.ServiceID != nil {
		svc, err := s.services.GetByID(ctx, actor.TenantID, *input.ServiceID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !svc.Active {
			return nil, apperrors.NewConflict("service inactive", map[string]any{"service_id": svc.ID})
		}
	}
	if input.StaffID != nil {
		member, err := s.staff.GetByID(ctx, *input.StaffID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if member.TenantID != actor.TenantID {
			return nil, apperrors.NewNotFound("staff account", nil)
		}
		overlap, err := s.reservations.HasOverlap(ctx, actor.TenantID, *input.StaffID, input.StartsAt, input.EndsAt, nil)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if overlap {
			return nil, apperrors.NewConflict("staff member already booked for this slot", nil)
		}
	}

	reservation := &domain.Reservation{
		TenantID:   actor.TenantID,
		CustomerID: input.CustomerID,
		StaffID:    input.StaffID,
		ServiceID:  input.ServiceID,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
		Status:     domain.ReservationStatusPending,
		Note:       input.Note,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.EventReservationCreated, events.ReservationCreatedPayload{
		ReservationID: reservation.ID,
		CustomerID:    reservation.CustomerID,
		StaffID:       reservation.StaffID,
		ServiceID:     reservation.ServiceID,
		StartsAt:      reservation.StartsAt,
	})

	return reservation, nil
}

// GetReservation fetches one reservation, tenant-scoped.
func (s *ReservationService) GetReservation(ctx context.Context, actor *domain.StaffAccount, id string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reservation, nil
}

// ListReservations searches the actor's tenant.
func (s *ReservationService) ListReservations(ctx context.Context, actor *domain.StaffAccount, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	list, err := s.reservations.List(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// allowedTransitions maps each status to its legal successors.
var allowedTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationStatusPending:   {domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled},
	domain.ReservationStatusConfirmed: {domain.ReservationStatusCompleted, domain.ReservationStatusCancelled, domain.ReservationStatusNoShow},
}

func transitionAllowed(from, to domain.ReservationStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// UpdateStatus advances a reservation through its lifecycle. Completion bumps
// the customer's visit counter.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor *domain.StaffAccount, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !domain.ValidReservationStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	reservation, err := s.reservations.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !transitionAllowed(reservation.Status, status) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": reservation.Status,
			"to":   status,
		})
	}

	oldStatus := reservation.Status
	reservation.Status = status
	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, apperrors.MapError(err)
	}

	if status == domain.ReservationStatusCompleted {
		if err := s.customers.RecordVisit(ctx, actor.TenantID, reservation.CustomerID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, actor, events.EventReservationStatusChanged, events.ReservationStatusChangedPayload{
		ReservationID: reservation.ID,
		OldStatus:     oldStatus,
		NewStatus:     status,
	})

	return reservation, nil
}

// UpdateReservation reschedules or reassigns a booking, re-checking slot
// availability when the staff assignment or times change.
func (s *ReservationService) UpdateReservation(ctx context.Context, actor *domain.StaffAccount, id string, input ReservationCreateInput) (*domain.Reservation, error) {
	if !input.StartsAt.Before(input.EndsAt) {
		return nil, apperrors.NewValidationError("starts_at must be before ends_at", nil)
	}

	reservation, err := s.reservations.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.StaffID != nil {
		overlap, err := s.reservations.HasOverlap(ctx, actor.TenantID, *input.StaffID, input.StartsAt, input.EndsAt, &reservation.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if overlap {
			return nil, apperrors.NewConflict("staff member already booked for this slot", nil)
		}
	}

	reservation.CustomerID = input.CustomerID
	reservation.StaffID = input.StaffID
	reservation.ServiceID = input.ServiceID
	reservation.StartsAt = input.StartsAt
	reservation.EndsAt = input.EndsAt
	reservation.Note = input.Note

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, apperrors.MapError(err)
	}
	return reservation, nil
}

func (s *ReservationService) publish(ctx context.Context, actor *domain.StaffAccount, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  actor.TenantID,
		Actor:     events.Actor{StaffID: &actor.ID},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
