package dto

import "github.com/spec-kit/wealthguard/internal/domain"

// FamilyMemberRequest payload for new family members.
type FamilyMemberRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Relationship string `json:"relationship" validate:"required,max=60"`
}

// AssetRequest payload for new holdings.
type AssetRequest struct {
	MemberID string         `json:"member_id" validate:"required"`
	Type     string         `json:"type" validate:"required"`
	Value    float64        `json:"value" validate:"gte=0"`
	Details  map[string]any `json:"details"`
}

// Asset converts the request into a domain asset for familyID.
func (r AssetRequest) Asset(familyID string) domain.Asset {
	return domain.Asset{
		FamilyID: familyID,
		MemberID: r.MemberID,
		Type:     domain.AssetType(r.Type),
		Value:    r.Value,
		Details:  r.Details,
	}
}

// DocumentRequest payload for new vault documents.
type DocumentRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	Category string `json:"category" validate:"required"`
	FileName string `json:"file_name" validate:"required,max=255"`
	FileSize string `json:"file_size" validate:"omitempty,max=32"`
}

// Document converts the request into a domain document for familyID.
func (r DocumentRequest) Document(familyID string) domain.Document {
	return domain.Document{
		FamilyID: familyID,
		MemberID: r.MemberID,
		Category: domain.DocumentCategory(r.Category),
		FileName: r.FileName,
		FileSize: r.FileSize,
	}
}
