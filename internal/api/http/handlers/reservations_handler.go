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

// ReservationsHandler manages booking endpoints.
type ReservationsHandler struct {
	service *service.ReservationService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservationService *service.ReservationService) *ReservationsHandler {
	return &ReservationsHandler{service: reservationService}
}

// CreateReservation POST /reservations.
func (h *ReservationsHandler) CreateReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return apperrors.NewValidationError("customer_id, starts_at, ends_at required", nil)
	}

	reservation, err := h.service.CreateReservation(c.Context(), principal.Staff, service.ReservationCreateInput{
		CustomerID: req.CustomerID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}
	return created(c, reservationResponse(reservation))
}

// ListReservations GET /reservations.
func (h *ReservationsHandler) ListReservations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseReservationQuery(c)
	reservations, err := h.service.ListReservations(c.Context(), principal.Staff, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		items = append(items, reservationResponse(&reservations[i]))
	}
	return success(c, items)
}

// GetReservation GET /reservations/:id.
func (h *ReservationsHandler) GetReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	reservation, err := h.service.GetReservation(c.Context(), principal.Staff, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, reservationResponse(reservation))
}

// UpdateReservation PUT /reservations/:id.
func (h *ReservationsHandler) UpdateReservation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return apperrors.NewValidationError("customer_id, starts_at, ends_at required", nil)
	}

	reservation, err := h.service.UpdateReservation(c.Context(), principal.Staff, c.Params("id"), service.ReservationCreateInput{
		CustomerID: req.CustomerID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}
	return success(c, reservationResponse(reservation))
}

// UpdateStatus PATCH /reservations/:id/status.
func (h *ReservationsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReservationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	reservation, err := h.service.UpdateStatus(c.Context(), principal.Staff, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return success(c, reservationResponse(reservation))
}

func parseReservationQuery(c *fiber.Ctx) repository.ReservationFilter {
	filter := repository.ReservationFilter{}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if staffID := c.Query("staff_id"); staffID != "" {
		filter.StaffID = &staffID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ReservationStatus(strings.TrimSpace(part)))
		}
	}
	if from := parseTime(c.Query("from")); from != nil {
		filter.From = from
	}
	if to := parseTime(c.Query("to")); to != nil {
		filter.To = to
	}
	filter.Limit, filter.Offset = pagination(c)
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func reservationResponse(reservation *domain.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:         reservation.ID,
		CustomerID: reservation.CustomerID,
		StaffID:    reservation.StaffID,
		ServiceID:  reservation.ServiceID,
		StartsAt:   reservation.StartsAt,
		EndsAt:     reservation.EndsAt,
		Status:     reservation.Status,
		Note:       reservation.Note,
		CreatedAt:  reservation.CreatedAt,
		UpdatedAt:  reservation.UpdatedAt,
	}
}
