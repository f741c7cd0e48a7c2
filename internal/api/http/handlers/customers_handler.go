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

// CustomersHandler manages customer endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	customer, err := h.service.CreateCustomer(c.Context(), principal.Staff, service.CustomerInput{
		Name:  req.Name,
		Kana:  req.Kana,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	return created(c, customerResponse(customer))
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := pagination(c)
	filter := repository.CustomerFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  limit,
		Offset: offset,
	}
	customers, err := h.service.ListCustomers(c.Context(), principal.Staff, filter)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return success(c, items)
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	customer, err := h.service.GetCustomer(c.Context(), principal.Staff, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, customerResponse(customer))
}

// UpdateCustomer PUT /customers/:id.
func (h *CustomersHandler) UpdateCustomer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	customer, err := h.service.UpdateCustomer(c.Context(), principal.Staff, c.Params("id"), service.CustomerInput{
		Name:  req.Name,
		Kana:  req.Kana,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	return success(c, customerResponse(customer))
}

// DeleteCustomer DELETE /customers/:id.
func (h *CustomersHandler) DeleteCustomer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteCustomer(c.Context(), principal.Staff, c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"deleted": true})
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		Kana:        customer.Kana,
		Phone:       customer.Phone,
		Email:       customer.Email,
		Notes:       customer.Notes,
		VisitCount:  customer.VisitCount,
		LastVisitAt: customer.LastVisitAt,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}
