package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/dto"
	"github.com/spec-kit/wealthguard/internal/service"
)

// IdentitiesHandler exposes the identity registry.
type IdentitiesHandler struct {
	portal *service.PortalService
}

// NewIdentitiesHandler constructs handler.
func NewIdentitiesHandler(portal *service.PortalService) *IdentitiesHandler {
	return &IdentitiesHandler{portal: portal}
}

// List handles GET /identities?q=.
func (h *IdentitiesHandler) List(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	identities, err := h.portal.VisibleIdentities(c.UserContext(), sessionID, c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": identities})
}

// Create handles POST /identities.
func (h *IdentitiesHandler) Create(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.CreateIdentityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	identity, err := h.portal.CreateIdentity(c.UserContext(), sessionID, req.Identity())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": identity})
}

// Update handles PATCH /identities/:id.
func (h *IdentitiesHandler) Update(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateIdentityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	identity, err := h.portal.UpdateIdentity(c.UserContext(), sessionID, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": identity})
}

// Delete handles DELETE /identities/:id.
func (h *IdentitiesHandler) Delete(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	if err := h.portal.DeleteIdentity(c.UserContext(), sessionID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
