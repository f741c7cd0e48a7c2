package auth

import (
	"testing"
	"time"

	"github.com/salonkit/salon-service/internal/domain"
)

func testStaff() *domain.StaffAccount {
	return &domain.StaffAccount{
		ID:       "11111111-1111-1111-1111-111111111111",
		TenantID: "22222222-2222-2222-2222-222222222222",
		Name:     "Aiko",
		Email:    "aiko@salon.example",
		Role:     domain.StaffRoleManager,
		Active:   true,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	staff := testStaff()

	token, expiresAt, err := tm.GenerateToken(staff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("unexpected expiry %v from now", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != staff.ID {
		t.Errorf("subject = %q, want %q", claims.Subject, staff.ID)
	}
	if claims.Email != staff.Email {
		t.Errorf("email = %q, want %q", claims.Email, staff.Email)
	}
	if claims.Role != domain.StaffRoleManager {
		t.Errorf("role = %q, want %q", claims.Role, domain.StaffRoleManager)
	}
	if claims.TenantID != staff.TenantID {
		t.Errorf("tenant_id = %q, want %q", claims.TenantID, staff.TenantID)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	// NewTokenManager clamps non-positive TTLs, so build the expired-token
	// manager directly.
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := tm.ParseToken(tampered); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken(testStaff())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestNewTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("s", 0)
	if tm.TTL() != 8*time.Hour {
		t.Errorf("TTL = %v, want 8h", tm.TTL())
	}
}
