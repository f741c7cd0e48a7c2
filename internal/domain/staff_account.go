package domain

import "time"

// StaffRole enumerates salon operator roles.
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "ADMIN"
	StaffRoleManager StaffRole = "MANAGER"
	StaffRoleStaff   StaffRole = "STAFF"
)

// ValidRole reports whether the role is a known member of the closed set.
func ValidRole(role StaffRole) bool {
	switch role {
	case StaffRoleAdmin, StaffRoleManager, StaffRoleStaff:
		return true
	}
	return false
}

// StaffAccount models a salon operator. Accounts are never hard-deleted;
// deactivation flips the Active flag.
type StaffAccount struct {
	ID               string
	TenantID         string
	Name             string
	Email            string
	PasswordHash     string
	Role             StaffRole
	Active           bool
	FailedLoginCount int
	LockedUntil      *time.Time
	TOTPSecret       *string
	TOTPEnabled      bool
	BackupCodes      []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LockedOut reports whether the account is inside an active lockout window.
func (s *StaffAccount) LockedOut(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// TwoFactorEnabled reports whether a TOTP challenge is required at login.
func (s *StaffAccount) TwoFactorEnabled() bool {
	return s.TOTPEnabled && s.TOTPSecret != nil && *s.TOTPSecret != ""
}
