package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/dto"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/service"
)

// PortfolioHandler exposes family members, assets and the document vault.
type PortfolioHandler struct {
	portal *service.PortalService
}

// NewPortfolioHandler constructs handler.
func NewPortfolioHandler(portal *service.PortalService) *PortfolioHandler {
	return &PortfolioHandler{portal: portal}
}

// Members handles GET /families/:id/members.
func (h *PortfolioHandler) Members(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	members, err := h.portal.ListFamilyMembers(c.UserContext(), sessionID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": members})
}

// AddMember handles POST /families/:id/members.
func (h *PortfolioHandler) AddMember(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.FamilyMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	member, err := h.portal.AddFamilyMember(c.UserContext(), sessionID, domain.FamilyMember{
		FamilyID:     c.Params("id"),
		Name:         req.Name,
		Relationship: req.Relationship,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": member})
}

// DeleteMember handles DELETE /families/:id/members/:memberId.
func (h *PortfolioHandler) DeleteMember(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	if err := h.portal.DeleteFamilyMember(c.UserContext(), sessionID, c.Params("id"), c.Params("memberId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Summary handles GET /families/:id/summary?member_id=.
func (h *PortfolioHandler) Summary(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	summary, err := h.portal.FamilySummary(c.UserContext(), sessionID, c.Params("id"), c.Query("member_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Assets handles GET /families/:id/assets?member_id=.
func (h *PortfolioHandler) Assets(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	assets, err := h.portal.FamilyAssets(c.UserContext(), sessionID, c.Params("id"), c.Query("member_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assets})
}

// AddAsset handles POST /families/:id/assets.
func (h *PortfolioHandler) AddAsset(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.AssetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	asset, err := h.portal.AddAsset(c.UserContext(), sessionID, req.Asset(c.Params("id")))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": asset})
}

// DeleteAsset handles DELETE /assets/:id.
func (h *PortfolioHandler) DeleteAsset(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	if err := h.portal.DeleteAsset(c.UserContext(), sessionID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Documents handles GET /families/:id/documents?category=.
func (h *PortfolioHandler) Documents(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	docs, err := h.portal.ListDocuments(c.UserContext(), sessionID, c.Params("id"), domain.DocumentCategory(c.Query("category")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": docs})
}

// AddDocument handles POST /families/:id/documents.
func (h *PortfolioHandler) AddDocument(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	var req dto.DocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	doc, err := h.portal.AddDocument(c.UserContext(), sessionID, req.Document(c.Params("id")))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": doc})
}

// DownloadDocument handles GET /documents/:id/download.
func (h *PortfolioHandler) DownloadDocument(c *fiber.Ctx) error {
	sessionID, err := currentSessionID(c)
	if err != nil {
		return err
	}
	doc, err := h.portal.DownloadDocument(c.UserContext(), sessionID, c.Params("id"))
	if err != nil {
		return err
	}
	c.Attachment(doc.FileName)
	return c.JSON(fiber.Map{"data": doc})
}
