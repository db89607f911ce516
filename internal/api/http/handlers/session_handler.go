package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/dto"
	"github.com/spec-kit/wealthguard/internal/auth"
	"github.com/spec-kit/wealthguard/internal/service"
)

// SessionHandler exposes login, logout and impersonation endpoints.
type SessionHandler struct {
	portal *service.PortalService
	tokens *auth.TokenManager
}

// NewSessionHandler constructs handler.
func NewSessionHandler(portal *service.PortalService, tokens *auth.TokenManager) *SessionHandler {
	return &SessionHandler{portal: portal, tokens: tokens}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sess, err := h.portal.Login(c.UserContext(), req.IdentityID)
	if err != nil {
		if service.IsNotFound(err) {
			return fiber.NewError(http.StatusUnauthorized, "unknown identity")
		}
		return err
	}
	token, exp, err := h.tokens.GenerateToken(sess.ID, sess.ActingUser.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionResponse(sess),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	if err := h.portal.Logout(c.UserContext(), sessionID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	sess, err := h.portal.Session(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess)})
}

// StartImpersonation handles POST /impersonation.
func (h *SessionHandler) StartImpersonation(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.ImpersonateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sess, err := h.portal.StartImpersonation(c.UserContext(), sessionID, req.TargetID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess)})
}

// StopImpersonation handles DELETE /impersonation.
func (h *SessionHandler) StopImpersonation(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	sess, err := h.portal.StopImpersonation(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess)})
}
