package service

import (
	"context"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// CustomerService manages salon customers.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customerRepo}
}

// CustomerInput describes customer fields set by staff.
type CustomerInput struct {
	Name  string
	Kana  string
	Phone string
	Email string
	Notes string
}

// CreateCustomer registers a customer in the actor's tenant.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor *domain.StaffAccount, input CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		TenantID: actor.TenantID,
		Name:     input.Name,
		Kana:     input.Kana,
		Phone:    input.Phone,
		Email:    input.Email,
		Notes:    input.Notes,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// GetCustomer fetches one customer, tenant-scoped.
func (s *CustomerService) GetCustomer(ctx context.Context, actor *domain.StaffAccount, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// ListCustomers searches the actor's tenant.
func (s *CustomerService) ListCustomers(ctx context.Context, actor *domain.StaffAccount, filter repository.CustomerFilter) ([]domain.Customer, error) {
	list, err := s.customers.List(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateCustomer mutates customer fields.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor *domain.StaffAccount, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	customer.Name = input.Name
	customer.Kana = input.Kana
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Notes = input.Notes

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer record.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *domain.StaffAccount, id string) error {
	if err := s.customers.Delete(ctx, actor.TenantID, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
