package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/session"
	apperrors "github.com/spec-kit/wealthguard/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal is the authenticated session behind a request.
type Principal struct {
	Session domain.Session
}

// SessionLoader resolves session ids into live sessions.
type SessionLoader interface {
	Session(ctx context.Context, sessionID string) (domain.Session, error)
}

// AuthMiddleware validates bearer tokens and loads sessions.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionLoader
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
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
		return apperrors.NewUnauthorized("invalid token")
	}

	sess, err := m.sessions.Session(c.UserContext(), claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return apperrors.NewUnauthorized("session expired")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Session: sess})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated session.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
