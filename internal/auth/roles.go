package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/domain"
	apperrors "github.com/spec-kit/wealthguard/pkg/util/errorutil"
)

// RequireSession ensures an authenticated session is present.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("session required")
		}
		return c.Next()
	}
}

// RequireRole ensures the identity currently presented holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("session required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Session.CurrentUser.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
