package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

// fakeStaffRepo mimics the single-statement update semantics of the real
// repository under an in-process mutex.
type fakeStaffRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.StaffAccount
}

func newFakeStaffRepo(accounts ...*domain.StaffAccount) *fakeStaffRepo {
	repo := &fakeStaffRepo{accounts: map[string]*domain.StaffAccount{}}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[staff.ID] = staff
	return nil
}

func (f *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.accounts[staff.ID] = staff
	return nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *staff
	return &copied, nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, staff := range f.accounts {
		if strings.EqualFold(staff.Email, email) {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) List(_ context.Context, tenantID string, _ repository.StaffFilter) ([]domain.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StaffAccount
	for _, staff := range f.accounts {
		if staff.TenantID == tenantID {
			result = append(result, *staff)
		}
	}
	return result, nil
}

func (f *fakeStaffRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.PasswordHash = passwordHash
	return nil
}

func (f *fakeStaffRepo) RecordLoginFailure(_ context.Context, id string, threshold int, lockout time.Duration) (int, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return 0, nil, pgx.ErrNoRows
	}
	staff.FailedLoginCount++
	if staff.FailedLoginCount >= threshold {
		until := time.Now().Add(lockout)
		staff.LockedUntil = &until
	}
	return staff.FailedLoginCount, staff.LockedUntil, nil
}

func (f *fakeStaffRepo) ResetLoginFailures(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.FailedLoginCount = 0
	staff.LockedUntil = nil
	return nil
}

func (f *fakeStaffRepo) EnableTwoFactor(_ context.Context, id, secret string, backupCodes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.TOTPSecret = &secret
	staff.TOTPEnabled = true
	staff.BackupCodes = append([]string(nil), backupCodes...)
	return nil
}

func (f *fakeStaffRepo) DisableTwoFactor(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.TOTPSecret = nil
	staff.TOTPEnabled = false
	staff.BackupCodes = nil
	return nil
}

func (f *fakeStaffRepo) ConsumeBackupCode(_ context.Context, id, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.accounts[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	for i, candidate := range staff.BackupCodes {
		if candidate == code {
			staff.BackupCodes = append(staff.BackupCodes[:i], staff.BackupCodes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStaffRepo) get(id string) *domain.StaffAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id]
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			TokenTTLMinutes:  480,
			BcryptCost:       4,
			LockoutThreshold: 5,
			LockoutMinutes:   15,
			TOTPIssuer:       "SalonKit",
			TOTPSkewSteps:    2,
			BackupCodeCount:  10,
		},
	}
}

func newTestAuthService(t *testing.T, repo *fakeStaffRepo) *AuthService {
	t.Helper()
	return NewAuthService(testConfig(), AuthDependencies{
		StaffRepo:  repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func seedAccount(t *testing.T, password string) *domain.StaffAccount {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &domain.StaffAccount{
		ID:           "staff-1",
		TenantID:     "tenant-1",
		Name:         "Aiko",
		Email:        "aiko@salon.example",
		PasswordHash: hash,
		Role:         domain.StaffRoleAdmin,
		Active:       true,
	}
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	repo := newFakeStaffRepo(seedAccount(t, "password123"))
	svc := newTestAuthService(t, repo)

	result, err := svc.Login(context.Background(), "aiko@salon.example", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.TwoFactorRequired {
		t.Fatal("unexpected two-factor challenge")
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}
	if remaining := time.Until(result.ExpiresAt); remaining < 7*time.Hour || remaining > 8*time.Hour {
		t.Errorf("token lifetime %v, want ~8h", remaining)
	}
}

func TestLoginWrongPasswordIncrementsCounter(t *testing.T) {
	repo := newFakeStaffRepo(seedAccount(t, "password123"))
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "aiko@salon.example", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.get("staff-1").FailedLoginCount != 1 {
		t.Errorf("failed count = %d, want 1", repo.get("staff-1").FailedLoginCount)
	}
}

func TestLoginLockoutAfterThreshold(t *testing.T) {
	repo := newFakeStaffRepo(seedAccount(t, "password123"))
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(ctx, "aiko@salon.example", "nope"); err == nil {
			t.Fatalf("attempt %d: expected error", i+1)
		}
	}
	if repo.get("staff-1").LockedUntil == nil {
		t.Fatal("expected lockout after 5 failures")
	}

	// Correct password is rejected during the lockout window.
	_, err := svc.Login(ctx, "aiko@salon.example", "password123")
	if err == nil {
		t.Fatal("expected lockout error")
	}
	if !apperrors.IsLockedOut(err) {
		t.Errorf("error = %v, want LOCKED_OUT", err)
	}
}

func TestLoginAfterLockoutExpiry(t *testing.T) {
	account := seedAccount(t, "password123")
	account.FailedLoginCount = 5
	expired := time.Now().Add(-time.Minute)
	account.LockedUntil = &expired

	repo := newFakeStaffRepo(account)
	svc := newTestAuthService(t, repo)

	result, err := svc.Login(context.Background(), "aiko@salon.example", "password123")
	if err != nil {
		t.Fatalf("Login after lock expiry: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}
	if got := repo.get("staff-1"); got.FailedLoginCount != 0 || got.LockedUntil != nil {
		t.Errorf("counter=%d lock=%v, want counter reset and lock cleared", got.FailedLoginCount, got.LockedUntil)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	repo := newFakeStaffRepo(seedAccount(t, "password123"))
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(ctx, "aiko@salon.example", "nope")
	}
	if repo.get("staff-1").FailedLoginCount != 3 {
		t.Fatalf("failed count = %d, want 3", repo.get("staff-1").FailedLoginCount)
	}

	if _, err := svc.Login(ctx, "aiko@salon.example", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if repo.get("staff-1").FailedLoginCount != 0 {
		t.Errorf("failed count = %d, want 0 after success", repo.get("staff-1").FailedLoginCount)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	svc := newTestAuthService(t, newFakeStaffRepo())
	if _, err := svc.Login(context.Background(), "nobody@salon.example", "pw"); err == nil {
		t.Fatal("expected error for unknown account")
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	account := seedAccount(t, "password123")
	account.Active = false
	svc := newTestAuthService(t, newFakeStaffRepo(account))

	if _, err := svc.Login(context.Background(), "aiko@salon.example", "password123"); err == nil {
		t.Fatal("expected error for deactivated account")
	}
}

func TestLoginWithTwoFactorDefersToken(t *testing.T) {
	account := seedAccount(t, "password123")
	secret := totpSecret(t)
	account.TOTPSecret = &secret
	account.TOTPEnabled = true
	svc := newTestAuthService(t, newFakeStaffRepo(account))

	result, err := svc.Login(context.Background(), "aiko@salon.example", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.TwoFactorRequired {
		t.Fatal("expected two-factor challenge")
	}
	if result.Token != "" {
		t.Error("token must not be issued before the challenge completes")
	}
}

func totpSecret(t *testing.T) string {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "SalonKit", AccountName: "aiko@salon.example"})
	if err != nil {
		t.Fatalf("totp.Generate: %v", err)
	}
	return key.Secret()
}

func currentTOTP(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		t.Fatalf("GenerateCodeCustom: %v", err)
	}
	return code
}

func TestVerifyTwoFactorWithTOTP(t *testing.T) {
	account := seedAccount(t, "password123")
	secret := totpSecret(t)
	account.TOTPSecret = &secret
	account.TOTPEnabled = true
	svc := newTestAuthService(t, newFakeStaffRepo(account))

	result, err := svc.VerifyTwoFactor(context.Background(), "aiko@salon.example", currentTOTP(t, secret))
	if err != nil {
		t.Fatalf("VerifyTwoFactor: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token after valid code")
	}
}

func TestVerifyTwoFactorWithBackupCode(t *testing.T) {
	account := seedAccount(t, "password123")
	secret := totpSecret(t)
	account.TOTPSecret = &secret
	account.TOTPEnabled = true
	account.BackupCodes = []string{"AB12-CD34", "EF56-GH78"}
	repo := newFakeStaffRepo(account)
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	result, err := svc.VerifyTwoFactor(ctx, "aiko@salon.example", "ab12-cd34")
	if err != nil {
		t.Fatalf("VerifyTwoFactor: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token after backup code")
	}
	if len(repo.get("staff-1").BackupCodes) != 1 {
		t.Fatalf("backup codes = %d, want 1", len(repo.get("staff-1").BackupCodes))
	}

	// The redeemed code must not work twice.
	if _, err := svc.VerifyTwoFactor(ctx, "aiko@salon.example", "AB12-CD34"); err == nil {
		t.Fatal("expected error for re-used backup code")
	}
	if repo.get("staff-1").FailedLoginCount != 1 {
		t.Errorf("failed count = %d, want 1 after invalid challenge", repo.get("staff-1").FailedLoginCount)
	}
}

func TestVerifyTwoFactorInvalidCodeCountsFailure(t *testing.T) {
	account := seedAccount(t, "password123")
	secret := totpSecret(t)
	account.TOTPSecret = &secret
	account.TOTPEnabled = true
	repo := newFakeStaffRepo(account)
	svc := newTestAuthService(t, repo)

	if _, err := svc.VerifyTwoFactor(context.Background(), "aiko@salon.example", "000000"); err == nil {
		t.Fatal("expected error")
	}
	if repo.get("staff-1").FailedLoginCount != 1 {
		t.Errorf("failed count = %d, want 1", repo.get("staff-1").FailedLoginCount)
	}
}

func TestVerifyTwoFactorWithoutEnrollment(t *testing.T) {
	svc := newTestAuthService(t, newFakeStaffRepo(seedAccount(t, "password123")))
	if _, err := svc.VerifyTwoFactor(context.Background(), "aiko@salon.example", "123456"); err == nil {
		t.Fatal("expected error when two-factor is not enabled")
	}
}

func TestEnableTwoFactorRequiresValidCode(t *testing.T) {
	account := seedAccount(t, "password123")
	repo := newFakeStaffRepo(account)
	svc := newTestAuthService(t, repo)
	ctx := context.Background()
	secret := totpSecret(t)

	if err := svc.EnableTwoFactor(ctx, account, secret, "000000", []string{"AB12-CD34"}); err == nil {
		t.Fatal("expected error for wrong confirmation code")
	}
	if repo.get("staff-1").TOTPEnabled {
		t.Fatal("enrollment must not persist on failed confirmation")
	}

	if err := svc.EnableTwoFactor(ctx, account, secret, currentTOTP(t, secret), []string{"ab12-cd34"}); err != nil {
		t.Fatalf("EnableTwoFactor: %v", err)
	}
	stored := repo.get("staff-1")
	if !stored.TOTPEnabled || stored.TOTPSecret == nil {
		t.Fatal("enrollment not persisted")
	}
	if len(stored.BackupCodes) != 1 || stored.BackupCodes[0] != "AB12-CD34" {
		t.Errorf("backup codes = %v, want normalized [AB12-CD34]", stored.BackupCodes)
	}
}

func TestDisableTwoFactor(t *testing.T) {
	account := seedAccount(t, "password123")
	secret := totpSecret(t)
	account.TOTPSecret = &secret
	account.TOTPEnabled = true
	repo := newFakeStaffRepo(account)
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if err := svc.DisableTwoFactor(ctx, account, "000000"); err == nil {
		t.Fatal("expected error for wrong code")
	}
	if err := svc.DisableTwoFactor(ctx, account, currentTOTP(t, secret)); err != nil {
		t.Fatalf("DisableTwoFactor: %v", err)
	}
	if repo.get("staff-1").TOTPEnabled {
		t.Error("enrollment should be cleared")
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeStaffRepo(seedAccount(t, "password123"))
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "staff-1", "wrong", "newpassword"); err == nil {
		t.Fatal("expected error for wrong current password")
	}
	if err := svc.ChangePassword(ctx, "staff-1", "password123", "newpassword"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, "aiko@salon.example", "newpassword"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "aiko@salon.example", "password123"); err == nil {
		t.Error("old password must no longer work")
	}
}
