package dto

import "github.com/salonkit/salon-service/internal/domain"

// StaffCreateRequest onboards a staff account.
type StaffCreateRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.StaffRole `json:"role"`
}

// StaffUpdateRequest mutates a staff account. Nil fields are left unchanged.
type StaffUpdateRequest struct {
	Name   *string           `json:"name"`
	Email  *string           `json:"email"`
	Role   *domain.StaffRole `json:"role"`
	Active *bool             `json:"active"`
}
