package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/audit"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/service"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	portal *service.PortalService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(portal *service.PortalService) *AuditHandler {
	return &AuditHandler{portal: portal}
}

// List handles GET /audit-logs?actor_id=&action=&severity=&limit=.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}

	filter := audit.Filter{
		ActorID:  c.Query("actor_id"),
		TargetID: c.Query("target_id"),
		Limit:    c.QueryInt("limit", 0),
	}
	if action := c.Query("action"); action != "" {
		filter.Actions = []domain.AuditAction{domain.AuditAction(action)}
	}
	if severity := c.Query("severity"); severity != "" {
		filter.Severities = []domain.Severity{domain.Severity(severity)}
	}

	entries, err := h.portal.ListAuditLog(c.UserContext(), sessionID, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
