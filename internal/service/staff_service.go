package service

import (
	"context"

	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// StaffService manages staff accounts within a tenant.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, staffRepo repository.StaffRepository) *StaffService {
	return &StaffService{staff: staffRepo, bcryptCost: cfg.Auth.BcryptCost}
}

// StaffCreateInput describes an onboarding request.
type StaffCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.StaffRole
}

// CreateStaff onboards a new staff account in the actor's tenant.
func (s *StaffService) CreateStaff(ctx context.Context, actor *domain.StaffAccount, input StaffCreateInput) (*domain.StaffAccount, error) {
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	staff := &domain.StaffAccount{
		TenantID:     actor.TenantID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListStaff returns staff accounts in the actor's tenant.
func (s *StaffService) ListStaff(ctx context.Context, actor *domain.StaffAccount, filter repository.StaffFilter) ([]domain.StaffAccount, error) {
	list, err := s.staff.List(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetStaff fetches one staff account, tenant-scoped.
func (s *StaffService) GetStaff(ctx context.Context, actor *domain.StaffAccount, id string) (*domain.StaffAccount, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if staff.TenantID != actor.TenantID {
		return nil, apperrors.NewNotFound("staff account", nil)
	}
	return staff, nil
}

// StaffUpdateInput describes a mutable subset of a staff account. Nil fields
// are left unchanged.
type StaffUpdateInput struct {
	Name   *string
	Email  *string
	Role   *domain.StaffRole
	Active *bool
}

// UpdateStaff mutates name, email, role or active flag. Accounts are never
// hard-deleted; deactivation is the only removal.
func (s *StaffService) UpdateStaff(ctx context.Context, actor *domain.StaffAccount, id string, input StaffUpdateInput) (*domain.StaffAccount, error) {
	staff, err := s.GetStaff(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		staff.Name = *input.Name
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		staff.Role = *input.Role
	}
	if input.Active != nil {
		staff.Active = *input.Active
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}
