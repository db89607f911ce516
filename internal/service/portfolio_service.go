package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/repository"
)

// familyAccess loads the session and checks that familyID is a customer the current
// user either is or can see.
func (s *PortalService) familyAccess(ctx context.Context, sessionID, familyID string) (domain.Session, domain.Identity, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return domain.Session{}, domain.Identity{}, err
	}
	family, ok := s.directory.Find(familyID)
	if !ok || family.Role != domain.RoleCustomer {
		return sess, domain.Identity{}, fmt.Errorf("%w: family %s", directory.ErrIdentityNotFound, familyID)
	}
	allowed := sess.CurrentUser.ID == familyID || s.engine.CanSee(sess.CurrentUser, familyID)
	if err := s.decide(sess, "family.access", allowed); err != nil {
		return sess, domain.Identity{}, err
	}
	return sess, family, nil
}

// ListFamilyMembers returns the members of a family. The acting user needs WHOLE_FAMILY.
func (s *PortalService) ListFamilyMembers(ctx context.Context, sessionID, familyID string) ([]domain.FamilyMember, error) {
	sess, _, err := s.familyAccess(ctx, sessionID, familyID)
	if err != nil {
		return nil, err
	}
	if err := s.decide(sess, "family.members", s.engine.HasPermission(sess.ActingUser, domain.CapWholeFamily)); err != nil {
		return nil, err
	}
	return s.families.ListByFamily(ctx, familyID)
}

// AddFamilyMember adds a member to a family. The acting user needs EDIT_CUSTOMERS.
func (s *PortalService) AddFamilyMember(ctx context.Context, sessionID string, member domain.FamilyMember) (domain.FamilyMember, error) {
	sess, family, err := s.familyAccess(ctx, sessionID, member.FamilyID)
	if err != nil {
		return domain.FamilyMember{}, err
	}
	if err := s.decide(sess, "family.member.create", s.engine.HasPermission(sess.ActingUser, domain.CapEditCustomers)); err != nil {
		return domain.FamilyMember{}, err
	}
	if member.Name == "" {
		return domain.FamilyMember{}, fmt.Errorf("%w: member name required", ErrInvalidInput)
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if err := s.families.Create(ctx, &member); err != nil {
		return domain.FamilyMember{}, err
	}

	s.record(ctx, sess, domain.ActionFamilyMemberCreate, domain.SeverityInfo, family.ID,
		fmt.Sprintf("Added family member %s (%s) to %s", member.Name, member.Relationship, family.Name))
	return member, nil
}

// DeleteFamilyMember removes a member from a family. The acting user needs DELETE_CASCADE.
// Holdings and documents of the member are kept.
func (s *PortalService) DeleteFamilyMember(ctx context.Context, sessionID, familyID, memberID string) error {
	sess, family, err := s.familyAccess(ctx, sessionID, familyID)
	if err != nil {
		return err
	}
	if err := s.decide(sess, "family.member.delete", s.engine.HasPermission(sess.ActingUser, domain.CapDeleteCascade)); err != nil {
		return err
	}
	member, err := s.findMember(ctx, familyID, memberID)
	if err != nil {
		return err
	}
	if err := s.families.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.record(ctx, sess, domain.ActionFamilyMemberDelete, domain.SeverityWarning, family.ID,
		fmt.Sprintf("Removed family member %s from %s", member.Name, family.Name))
	return nil
}

// FamilyAssets returns the holdings of a family. Narrowing to one member needs
// WHOLE_FAMILY on the acting user.
func (s *PortalService) FamilyAssets(ctx context.Context, sessionID, familyID, memberID string) ([]domain.Asset, error) {
	sess, _, err := s.familyAccess(ctx, sessionID, familyID)
	if err != nil {
		return nil, err
	}
	return s.memberAssets(ctx, sess, familyID, memberID)
}

func (s *PortalService) memberAssets(ctx context.Context, sess domain.Session, familyID, memberID string) ([]domain.Asset, error) {
	if memberID != "" {
		if err := s.decide(sess, "family.member.assets", s.engine.HasPermission(sess.ActingUser, domain.CapWholeFamily)); err != nil {
			return nil, err
		}
	}
	assets, err := s.assets.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if memberID == "" {
		return assets, nil
	}
	filtered := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.MemberID == memberID {
			filtered = append(filtered, asset)
		}
	}
	return filtered, nil
}

// AddAsset records a holding for a family member. The acting user needs EDIT_CUSTOMERS.
func (s *PortalService) AddAsset(ctx context.Context, sessionID string, asset domain.Asset) (domain.Asset, error) {
	sess, family, err := s.familyAccess(ctx, sessionID, asset.FamilyID)
	if err != nil {
		return domain.Asset{}, err
	}
	if err := s.decide(sess, "asset.create", s.engine.HasPermission(sess.ActingUser, domain.CapEditCustomers)); err != nil {
		return domain.Asset{}, err
	}
	if !asset.Type.Valid() || asset.Value < 0 {
		return domain.Asset{}, fmt.Errorf("%w: asset type or value", ErrInvalidInput)
	}
	if err := s.requireMember(ctx, asset.FamilyID, asset.MemberID); err != nil {
		return domain.Asset{}, err
	}

	asset.ID = uuid.NewString()
	asset.LastUpdated = time.Now().UTC()
	if err := s.assets.Create(ctx, &asset); err != nil {
		return domain.Asset{}, err
	}

	s.record(ctx, sess, domain.ActionAssetCreate, domain.SeverityInfo, family.ID,
		fmt.Sprintf("Added %s worth $%.2f for %s", asset.Type, asset.Value, family.Name))
	return asset, nil
}

// DeleteAsset removes a holding. The acting user needs DELETE_CASCADE.
func (s *PortalService) DeleteAsset(ctx context.Context, sessionID, assetID string) error {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	sess, family, err := s.familyAccess(ctx, sessionID, asset.FamilyID)
	if err != nil {
		return err
	}
	if err := s.decide(sess, "asset.delete", s.engine.HasPermission(sess.ActingUser, domain.CapDeleteCascade)); err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, assetID); err != nil {
		return err
	}

	s.record(ctx, sess, domain.ActionAssetDelete, domain.SeverityWarning, family.ID,
		fmt.Sprintf("Deleted %s worth $%.2f for %s", asset.Type, asset.Value, family.Name))
	return nil
}

// FamilySummary aggregates holdings per asset type. Document counts cover the whole
// family; holdings follow the member filter of FamilyAssets.
func (s *PortalService) FamilySummary(ctx context.Context, sessionID, familyID, memberID string) ([]domain.CategorySummary, error) {
	sess, _, err := s.familyAccess(ctx, sessionID, familyID)
	if err != nil {
		return nil, err
	}
	assets, err := s.memberAssets(ctx, sess, familyID, memberID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	summary := make([]domain.CategorySummary, 0, len(domain.AssetTypes()))
	for _, t := range domain.AssetTypes() {
		row := domain.CategorySummary{Type: t}
		for _, asset := range assets {
			if asset.Type == t {
				row.TotalValue += asset.Value
				row.Count++
			}
		}
		for _, doc := range docs {
			if doc.Category == domain.DocumentCategory(t) {
				row.DocCount++
			}
		}
		summary = append(summary, row)
	}
	return summary, nil
}

// ListDocuments returns the vault of a family, optionally narrowed to one category.
func (s *PortalService) ListDocuments(ctx context.Context, sessionID, familyID string, category domain.DocumentCategory) ([]domain.Document, error) {
	if _, _, err := s.familyAccess(ctx, sessionID, familyID); err != nil {
		return nil, err
	}
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown document category %q", ErrInvalidInput, category)
	}
	docs, err := s.documents.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return docs, nil
	}
	filtered := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Category == category {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

// AddDocument files a document for a family member. The acting user needs EDIT_CUSTOMERS.
func (s *PortalService) AddDocument(ctx context.Context, sessionID string, doc domain.Document) (domain.Document, error) {
	sess, family, err := s.familyAccess(ctx, sessionID, doc.FamilyID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.decide(sess, "document.create", s.engine.HasPermission(sess.ActingUser, domain.CapEditCustomers)); err != nil {
		return domain.Document{}, err
	}
	if !doc.Category.Valid() || doc.FileName == "" {
		return domain.Document{}, fmt.Errorf("%w: document category or file name", ErrInvalidInput)
	}
	if err := s.requireMember(ctx, doc.FamilyID, doc.MemberID); err != nil {
		return domain.Document{}, err
	}

	doc.ID = uuid.NewString()
	doc.UploadDate = time.Now().UTC()
	if err := s.documents.Create(ctx, &doc); err != nil {
		return domain.Document{}, err
	}

	s.record(ctx, sess, domain.ActionDocumentUpload, domain.SeverityInfo, family.ID,
		fmt.Sprintf("Uploaded %s (%s) for %s", doc.FileName, doc.Category, family.Name))
	return doc, nil
}

// DownloadDocument releases a document. The acting user needs DOWNLOAD_PDF.
func (s *PortalService) DownloadDocument(ctx context.Context, sessionID, documentID string) (domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return domain.Document{}, err
	}
	sess, family, err := s.familyAccess(ctx, sessionID, doc.FamilyID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.decide(sess, "document.download", s.engine.HasPermission(sess.ActingUser, domain.CapDownloadPDF)); err != nil {
		return domain.Document{}, err
	}

	s.record(ctx, sess, domain.ActionDocumentDownload, domain.SeverityInfo, family.ID,
		fmt.Sprintf("Downloaded %s for %s", doc.FileName, family.Name))
	return *doc, nil
}

func (s *PortalService) findMember(ctx context.Context, familyID, memberID string) (domain.FamilyMember, error) {
	members, err := s.families.ListByFamily(ctx, familyID)
	if err != nil {
		return domain.FamilyMember{}, err
	}
	for _, m := range members {
		if m.ID == memberID {
			return m, nil
		}
	}
	return domain.FamilyMember{}, fmt.Errorf("%w: member %s in family %s", repository.ErrNotFound, memberID, familyID)
}

func (s *PortalService) requireMember(ctx context.Context, familyID, memberID string) error {
	if _, err := s.findMember(ctx, familyID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: member %s not in family %s", ErrInvalidInput, memberID, familyID)
		}
		return err
	}
	return nil
}

// IsNotFound reports whether err is an absent-record outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, directory.ErrIdentityNotFound) || errors.Is(err, repository.ErrNotFound)
}
