package service

import (
	"context"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// SalonServiceService manages the bookable menu.
type SalonServiceService struct {
	services repository.SalonServiceRepository
}

// NewSalonServiceService constructs the service.
func NewSalonServiceService(serviceRepo repository.SalonServiceRepository) *SalonServiceService {
	return &SalonServiceService{services: serviceRepo}
}

// SalonServiceInput describes menu item fields.
type SalonServiceInput struct {
	Name            string
	Description     string
	DurationMinutes int
	PriceYen        int
	Active          *bool
}

func validateSalonServiceInput(input SalonServiceInput) error {
	if input.DurationMinutes <= 0 {
		return apperrors.NewValidationError("duration_minutes must be positive", nil)
	}
	if input.PriceYen < 0 {
		return apperrors.NewValidationError("price_yen must not be negative", nil)
	}
	return nil
}

// CreateService adds a menu item to the actor's tenant.
func (s *SalonServiceService) CreateService(ctx context.Context, actor *domain.StaffAccount, input SalonServiceInput) (*domain.SalonService, error) {
	if err := validateSalonServiceInput(input); err != nil {
		return nil, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	svc := &domain.SalonService{
		TenantID:        actor.TenantID,
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		PriceYen:        input.PriceYen,
		Active:          active,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

// GetService fetches one menu item, tenant-scoped.
func (s *SalonServiceService) GetService(ctx context.Context, actor *domain.StaffAccount, id string) (*domain.SalonService, error) {
	svc, err := s.services.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

// ListServices returns menu items in the actor's tenant.
func (s *SalonServiceService) ListServices(ctx context.Context, actor *domain.StaffAccount, includeInactive bool, limit, offset int) ([]domain.SalonService, error) {
	list, err := s.services.List(ctx, actor.TenantID, includeInactive, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateService mutates a menu item. Deactivation hides the item from new
// bookings without affecting existing reservations.
func (s *SalonServiceService) UpdateService(ctx context.Context, actor *domain.StaffAccount, id string, input SalonServiceInput) (*domain.SalonService, error) {
	if err := validateSalonServiceInput(input); err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	svc.Name = input.Name
	svc.Description = input.Description
	svc.DurationMinutes = input.DurationMinutes
	svc.PriceYen = input.PriceYen
	if input.Active != nil {
		svc.Active = *input.Active
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}
