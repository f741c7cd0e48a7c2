package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/salonkit/salon-service/internal/domain"
)

// TokenManager handles issuing and validating session JWTs. Tokens are
// self-contained and non-revocable; expiry is the only invalidation.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload for a staff session.
type Claims struct {
	Email    string           `json:"email"`
	Role     domain.StaffRole `json:"role"`
	TenantID string           `json:"tenant_id"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the staff account.
func (tm *TokenManager) GenerateToken(staff *domain.StaffAccount) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Email:    staff.Email,
		Role:     staff.Role,
		TenantID: staff.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry, returning the claims. Any
// malformed, tampered or expired token yields an error; callers must treat
// all failures uniformly as unauthenticated.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
