package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// AuthService coordinates login, two-factor and session flows.
type AuthService struct {
	staff            repository.StaffRepository
	tokenMgr         *auth.TokenManager
	twoFactor        *auth.TwoFactor
	dispatcher       events.Dispatcher
	logger           *zap.Logger
	bcryptCost       int
	lockoutThreshold int
	lockoutDuration  time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		staff:            deps.StaffRepo,
		tokenMgr:         auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		twoFactor:        auth.NewTwoFactor(cfg.Auth.TOTPIssuer, cfg.Auth.TOTPSkewSteps, cfg.Auth.BackupCodeCount),
		dispatcher:       deps.Dispatcher,
		logger:           deps.Logger,
		bcryptCost:       cfg.Auth.BcryptCost,
		lockoutThreshold: cfg.Auth.LockoutThreshold,
		lockoutDuration:  cfg.Auth.LockoutDuration(),
	}
}

// LoginResult is the outcome of a successful credential check. When
// TwoFactorRequired is set no token has been issued yet; the client must
// complete the TOTP challenge.
type LoginResult struct {
	Staff             *domain.StaffAccount
	Token             string
	ExpiresAt         time.Time
	TwoFactorRequired bool
}

// Login authenticates a staff account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("account deactivated")
	}
	if staff.LockedOut(time.Now()) {
		return nil, apperrors.NewLockedOut(*staff.LockedUntil)
	}

	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		s.recordFailure(ctx, staff)
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	if err := s.staff.ResetLoginFailures(ctx, staff.ID); err != nil {
		s.logger.Error("reset login failures", zap.String("staff_id", staff.ID), zap.Error(err))
	}

	if staff.TwoFactorEnabled() {
		return &LoginResult{Staff: staff, TwoFactorRequired: true}, nil
	}

	return s.issueToken(staff)
}

// VerifyTwoFactor completes a pending login with a TOTP code or an unused
// backup code and issues the session token.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, email, code string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("account deactivated")
	}
	if staff.LockedOut(time.Now()) {
		return nil, apperrors.NewLockedOut(*staff.LockedUntil)
	}
	if !staff.TwoFactorEnabled() {
		return nil, apperrors.NewUnauthorized("two-factor not enabled for this account")
	}

	if !s.twoFactor.VerifyCode(code, *staff.TOTPSecret) {
		consumed, err := s.staff.ConsumeBackupCode(ctx, staff.ID, auth.NormalizeBackupCode(code))
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !consumed {
			s.recordFailure(ctx, staff)
			return nil, apperrors.NewUnauthorized("invalid two-factor code")
		}
	}

	if err := s.staff.ResetLoginFailures(ctx, staff.ID); err != nil {
		s.logger.Error("reset login failures", zap.String("staff_id", staff.ID), zap.Error(err))
	}

	return s.issueToken(staff)
}

// SetupTwoFactor generates a fresh enrollment for the staff account. Nothing
// is persisted until EnableTwoFactor confirms possession of the secret.
func (s *AuthService) SetupTwoFactor(_ context.Context, staff *domain.StaffAccount) (*auth.Enrollment, error) {
	enrollment, err := s.twoFactor.Setup(staff.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return enrollment, nil
}

// EnableTwoFactor persists the enrollment after validating one code against
// the submitted secret.
func (s *AuthService) EnableTwoFactor(ctx context.Context, staff *domain.StaffAccount, secret, code string, backupCodes []string) error {
	if secret == "" || !s.twoFactor.VerifyCode(code, secret) {
		return apperrors.NewUnauthorized("invalid two-factor code")
	}
	normalized := make([]string, 0, len(backupCodes))
	for _, bc := range backupCodes {
		if n := auth.NormalizeBackupCode(bc); n != "" {
			normalized = append(normalized, n)
		}
	}
	if err := s.staff.EnableTwoFactor(ctx, staff.ID, secret, normalized); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// DisableTwoFactor clears the enrollment after validating a current code.
func (s *AuthService) DisableTwoFactor(ctx context.Context, staff *domain.StaffAccount, code string) error {
	if !staff.TwoFactorEnabled() {
		return apperrors.NewValidationError("two-factor not enabled", nil)
	}
	if !s.twoFactor.VerifyCode(code, *staff.TOTPSecret) {
		return apperrors.NewUnauthorized("invalid two-factor code")
	}
	if err := s.staff.DisableTwoFactor(ctx, staff.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Logout is a no-op: tokens are stateless and cannot be revoked before their
// natural expiry. Clients discard the token.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueToken(staff *domain.StaffAccount) (*LoginResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Staff: staff, Token: token, ExpiresAt: exp}, nil
}

// recordFailure writes the failed attempt through a non-cancellable context:
// a client disconnect must not drop an attempt record.
func (s *AuthService) recordFailure(ctx context.Context, staff *domain.StaffAccount) {
	ctx = context.WithoutCancel(ctx)

	count, lockedUntil, err := s.staff.RecordLoginFailure(ctx, staff.ID, s.lockoutThreshold, s.lockoutDuration)
	if err != nil {
		s.logger.Error("record login failure", zap.String("staff_id", staff.ID), zap.Error(err))
		return
	}

	if lockedUntil != nil && time.Now().Before(*lockedUntil) && count >= s.lockoutThreshold {
		s.logger.Warn("account locked out",
			zap.String("staff_id", staff.ID),
			zap.Int("failed_attempts", count),
			zap.Time("locked_until", *lockedUntil),
		)
		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventStaffLockedOut,
				TenantID:  staff.TenantID,
				Timestamp: time.Now(),
				Payload: events.StaffLockedOutPayload{
					StaffID:     staff.ID,
					Email:       staff.Email,
					LockedUntil: *lockedUntil,
				},
			})
		}
	}
}
