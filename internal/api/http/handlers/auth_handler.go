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

// AuthHandler exposes login, two-factor and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if result.TwoFactorRequired {
		return success(c, fiber.Map{"two_factor_required": true})
	}
	return success(c, authResponse(result))
}

// VerifyTwoFactor POST /auth/2fa/verify.
func (h *AuthHandler) VerifyTwoFactor(c *fiber.Ctx) error {
	var req dto.TwoFactorVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		return apperrors.NewValidationError("email and code required", nil)
	}

	result, err := h.service.VerifyTwoFactor(c.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return success(c, authResponse(result))
}

// SetupTwoFactor POST /auth/2fa/setup. Generates enrollment material without
// persisting anything; the enable call confirms possession of the secret.
func (h *AuthHandler) SetupTwoFactor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	enrollment, err := h.service.SetupTwoFactor(c.Context(), principal.Staff)
	if err != nil {
		return err
	}
	return success(c, dto.TwoFactorSetupResponse{
		Secret:      enrollment.Secret,
		OtpauthURL:  enrollment.OtpauthURL,
		QRCode:      enrollment.QRPNGBase64,
		BackupCodes: enrollment.BackupCodes,
		ManualEntry: enrollment.ManualEntry,
	})
}

// EnableTwoFactor POST /auth/2fa/enable.
func (h *AuthHandler) EnableTwoFactor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TwoFactorEnableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Secret == "" || strings.TrimSpace(req.Code) == "" {
		return apperrors.NewValidationError("secret and code required", nil)
	}
	if err := h.service.EnableTwoFactor(c.Context(), principal.Staff, req.Secret, req.Code, req.BackupCodes); err != nil {
		return err
	}
	return success(c, fiber.Map{"two_factor_enabled": true})
}

// DisableTwoFactor POST /auth/2fa/disable.
func (h *AuthHandler) DisableTwoFactor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TwoFactorDisableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Code) == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	if err := h.service.DisableTwoFactor(c.Context(), principal.Staff, req.Code); err != nil {
		return err
	}
	return success(c, fiber.Map{"two_factor_enabled": false})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}
	if len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("new_password must be at least 8 characters", nil)
	}
	if err := h.service.ChangePassword(c.Context(), principal.Staff.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, fiber.Map{"password_changed": true})
}

// Logout POST /auth/logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Logout(c.Context(), principal.Staff.ID); err != nil {
		return err
	}
	return success(c, fiber.Map{"logged_out": true})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return success(c, staffResponse(principal.Staff))
}

func authResponse(result *service.LoginResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Staff:     staffResponse(result.Staff),
	}
}

func staffResponse(staff *domain.StaffAccount) dto.StaffResponse {
	return dto.StaffResponse{
		ID:               staff.ID,
		TenantID:         staff.TenantID,
		Name:             staff.Name,
		Email:            staff.Email,
		Role:             staff.Role,
		Active:           staff.Active,
		TwoFactorEnabled: staff.TwoFactorEnabled(),
		CreatedAt:        staff.CreatedAt,
	}
}
