package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/dto"
	"github.com/spec-kit/wealthguard/internal/auth"
	apperrors "github.com/spec-kit/wealthguard/pkg/util/errorutil"
)

func currentSessionID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("session required")
	}
	return principal.Session.ID, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return dto.Validate(out)
}
