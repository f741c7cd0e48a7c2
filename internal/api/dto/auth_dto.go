package dto

import (
	"time"

	"github.com/salonkit/salon-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TwoFactorVerifyRequest completes a pending login.
type TwoFactorVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// TwoFactorEnableRequest persists an enrollment generated by setup.
type TwoFactorEnableRequest struct {
	Secret      string   `json:"secret"`
	Code        string   `json:"code"`
	BackupCodes []string `json:"backup_codes"`
}

// TwoFactorDisableRequest clears an enrollment.
type TwoFactorDisableRequest struct {
	Code string `json:"code"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse carries the issued session token and the authenticated staff
// profile.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Staff     StaffResponse `json:"staff"`
}

// TwoFactorSetupResponse returns enrollment material. Nothing is persisted
// until the enable call confirms a valid code.
type TwoFactorSetupResponse struct {
	Secret      string   `json:"secret"`
	OtpauthURL  string   `json:"otpauth_url"`
	QRCode      string   `json:"qr_code"`
	BackupCodes []string `json:"backup_codes"`
	ManualEntry string   `json:"manual_entry"`
}

// StaffResponse is the public view of a staff account. Secrets never leave
// the server.
type StaffResponse struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenant_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Role             domain.StaffRole `json:"role"`
	Active           bool             `json:"active"`
	TwoFactorEnabled bool             `json:"two_factor_enabled"`
	CreatedAt        time.Time        `json:"created_at"`
}
