package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/salonkit/salon-service/internal/domain"
	"github.com/salonkit/salon-service/internal/repository"
	apperrors "github.com/salonkit/salon-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Downstream handlers scope
// every query by Principal.Staff.TenantID.
type Principal struct {
	Staff  *domain.StaffAccount
	Claims *Claims
}

// Middleware validates bearer tokens and loads the staff principal.
type Middleware struct {
	tokens *TokenManager
	staff  repository.StaffRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, staff repository.StaffRepository) *Middleware {
	return &Middleware{tokens: tokens, staff: staff}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	staff, err := m.staff.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}
	if !staff.Active {
		return apperrors.NewUnauthorized("account deactivated")
	}

	c.Locals(principalKey, &Principal{Staff: staff, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated staff account.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequirePermission gates a route on the caller's role capability set. The
// token's role is authoritative for the session; it is never elevated after
// issuance.
func RequirePermission(resource Resource, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Staff == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Allowed(principal.Staff.Role, resource, action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
