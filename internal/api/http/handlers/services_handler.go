package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/salonkit/salon-service/internal/api/dto"
	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/service"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// ServicesHandler manages menu item endpoints.
type ServicesHandler struct {
	service *service.SalonServiceService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(salonServiceService *service.SalonServiceService) *ServicesHandler {
	return &ServicesHandler{service: salonServiceService}
}

// CreateService POST /services.
func (h *ServicesHandler) CreateService(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SalonServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	svc, err := h.service.CreateService(c.Context(), principal.Staff, service.SalonServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceYen:        req.PriceYen,
		Active:          req.Active,
	})
	if err != nil {
		return err
	}
	return created(c, salonServiceResponse(svc))
}

// ListServices GET /services.
func (h *ServicesHandler) ListServices(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	includeInactive := parseBoolQuery(c, "include_inactive", false)
	limit, offset := pagination(c)
	services, err := h.service.ListServices(c.Context(), principal.Staff, includeInactive, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.SalonServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, salonServiceResponse(&services[i]))
	}
	return success(c, items)
}

// GetService GET /services/:id.
func (h *ServicesHandler) GetService(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	svc, err := h.service.GetService(c.Context(), principal.Staff, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, salonServiceResponse(svc))
}

// UpdateService PUT /services/:id.
func (h *ServicesHandler) UpdateService(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SalonServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	svc, err := h.service.UpdateService(c.Context(), principal.Staff, c.Params("id"), service.SalonServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceYen:        req.PriceYen,
		Active:          req.Active,
	})
	if err != nil {
		return err
	}
	return success(c, salonServiceResponse(svc))
}

func salonServiceResponse(svc *domain.SalonService) dto.SalonServiceResponse {
	return dto.SalonServiceResponse{
		ID:              svc.ID,
		Name:            svc.Name,
		Description:     svc.Description,
		DurationMinutes: svc.DurationMinutes,
		PriceYen:        svc.PriceYen,
		Active:          svc.Active,
		CreatedAt:       svc.CreatedAt,
		UpdatedAt:       svc.UpdatedAt,
	}
}
