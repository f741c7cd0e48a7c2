package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

type stubStaffRepo struct {
	accounts map[string]*domain.StaffAccount
}

func (s *stubStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	staff, ok := s.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return staff, nil
}

func (s *stubStaffRepo) Create(context.Context, *domain.StaffAccount) error { return nil }
func (s *stubStaffRepo) Update(context.Context, *domain.StaffAccount) error { return nil }
func (s *stubStaffRepo) GetByEmail(context.Context, string) (*domain.StaffAccount, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubStaffRepo) List(context.Context, string, repository.StaffFilter) ([]domain.StaffAccount, error) {
	return nil, nil
}
func (s *stubStaffRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubStaffRepo) RecordLoginFailure(context.Context, string, int, time.Duration) (int, *time.Time, error) {
	return 0, nil, nil
}
func (s *stubStaffRepo) ResetLoginFailures(context.Context, string) error          { return nil }
func (s *stubStaffRepo) EnableTwoFactor(context.Context, string, string, []string) error { return nil }
func (s *stubStaffRepo) DisableTwoFactor(context.Context, string) error            { return nil }
func (s *stubStaffRepo) ConsumeBackupCode(context.Context, string, string) (bool, error) {
	return false, nil
}

func middlewareApp(t *testing.T, staff *domain.StaffAccount) (*fiber.App, *TokenManager) {
	t.Helper()
	tm := NewTokenManager("test-secret", time.Hour)
	repo := &stubStaffRepo{accounts: map[string]*domain.StaffAccount{}}
	if staff != nil {
		repo.accounts[staff.ID] = staff
	}
	mw := NewMiddleware(tm, repo)

	app := fiber.New()
	// Minimal error rendering so status codes are observable in tests.
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"success": false, "error": fiber.Map{"code": de.Code}})
		}
		return nil
	})
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"staff_id": principal.Staff.ID})
	})
	app.Get("/staff-admin", mw.Handle, RequirePermission(ResourceStaff, ActionWrite), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app, tm
}

func activeStaff(role domain.StaffRole) *domain.StaffAccount {
	return &domain.StaffAccount{
		ID:       "staff-1",
		TenantID: "tenant-1",
		Email:    "aiko@salon.example",
		Role:     role,
		Active:   true,
	}
}

func TestMiddlewareMissingHeader(t *testing.T) {
	app, _ := middlewareApp(t, activeStaff(domain.StaffRoleAdmin))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	app, _ := middlewareApp(t, activeStaff(domain.StaffRoleAdmin))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	app, _ := middlewareApp(t, activeStaff(domain.StaffRoleAdmin))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMiddlewareValidTokenSetsPrincipal(t *testing.T) {
	staff := activeStaff(domain.StaffRoleAdmin)
	app, tm := middlewareApp(t, staff)

	token, _, err := tm.GenerateToken(staff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["staff_id"] != "staff-1" {
		t.Errorf("staff_id = %q", body["staff_id"])
	}
}

func TestMiddlewareDeactivatedAccount(t *testing.T) {
	staff := activeStaff(domain.StaffRoleAdmin)
	staff.Active = false
	app, tm := middlewareApp(t, staff)

	token, _, err := tm.GenerateToken(staff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequirePermissionForbidden(t *testing.T) {
	staff := activeStaff(domain.StaffRoleStaff)
	app, tm := middlewareApp(t, staff)

	token, _, err := tm.GenerateToken(staff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/staff-admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRequirePermissionAdminAllowed(t *testing.T) {
	staff := activeStaff(domain.StaffRoleAdmin)
	app, tm := middlewareApp(t, staff)

	token, _, err := tm.GenerateToken(staff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/staff-admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
