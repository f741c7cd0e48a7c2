package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/salonkit/salon-service/internal/api/dto"
	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	"github.com/salonkit/salon-service/internal/service"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// StaffHandler manages staff account administration.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// CreateStaff POST /staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	staff, err := h.service.CreateStaff(c.Context(), principal.Staff, service.StaffCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return created(c, staffResponse(staff))
}

// ListStaff GET /staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.StaffFilter{}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(strings.ToUpper(roleStr))
		filter.Role = &role
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := parseBoolQuery(c, "active", true)
		filter.Active = &active
	}
	filter.Limit, filter.Offset = pagination(c)

	list, err := h.service.ListStaff(c.Context(), principal.Staff, filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		items = append(items, staffResponse(&list[i]))
	}
	return success(c, items)
}

// GetStaff GET /staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	staff, err := h.service.GetStaff(c.Context(), principal.Staff, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, staffResponse(staff))
}

// UpdateStaff PUT /staff/:id. Deactivation is the only removal; accounts are
// never hard-deleted.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.service.UpdateStaff(c.Context(), principal.Staff, c.Params("id"), service.StaffUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return success(c, staffResponse(staff))
}
