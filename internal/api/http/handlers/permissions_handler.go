package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/dto"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/service"
	apperrors "github.com/spec-kit/wealthguard/pkg/util/errorutil"
)

// PermissionsHandler exposes the permission matrix.
type PermissionsHandler struct {
	portal *service.PortalService
}

// NewPermissionsHandler constructs handler.
func NewPermissionsHandler(portal *service.PortalService) *PermissionsHandler {
	return &PermissionsHandler{portal: portal}
}

// List handles GET /permissions.
func (h *PermissionsHandler) List(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	rows, err := h.portal.PermissionMatrix(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Set handles PUT /permissions/:role/:capability.
func (h *PermissionsHandler) Set(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(c.Params("role"))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	capability, err := domain.ParseCapability(c.Params("capability"))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	var req dto.SetPermissionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.portal.SetPermission(c.UserContext(), sessionID, role, capability, *req.Value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"role":       role,
		"capability": capability,
		"value":      *req.Value,
	}})
}
