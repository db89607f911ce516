package domain

import "time"

// AssetType enumerates holdings tracked per family member.
type AssetType string

const (
	AssetStocks        AssetType = "Stocks"
	AssetFixedDeposits AssetType = "Fixed Deposits"
	AssetMutualFunds   AssetType = "Mutual Funds"
	AssetBonds         AssetType = "Bonds"
	AssetPPF           AssetType = "PPF"
	AssetLifeInsurance AssetType = "Life Insurance"
	AssetTermInsurance AssetType = "Term Insurance"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	switch t {
	case AssetStocks, AssetFixedDeposits, AssetMutualFunds, AssetBonds,
		AssetPPF, AssetLifeInsurance, AssetTermInsurance:
		return true
	}
	return false
}

// FamilyMember belongs to a customer family. FamilyID is the customer identity id.
type FamilyMember struct {
	ID           string `json:"id"`
	FamilyID     string `json:"family_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// Asset is a holding of one family member.
type Asset struct {
	ID          string         `json:"id"`
	FamilyID    string         `json:"family_id"`
	MemberID    string         `json:"member_id"`
	Type        AssetType      `json:"type"`
	Value       float64        `json:"value"`
	Details     map[string]any `json:"details,omitempty"`
	LastUpdated time.Time      `json:"last_updated"`
}

// DocumentCategory files a document under an asset type or one of the identity categories.
type DocumentCategory string

const (
	DocumentIDProof  DocumentCategory = "ID_PROOF"
	DocumentTaxForms DocumentCategory = "TAX_FORMS"
)

// Valid reports whether c is an asset type or an identity category.
func (c DocumentCategory) Valid() bool {
	return c == DocumentIDProof || c == DocumentTaxForms || AssetType(c).Valid()
}

// Document is a proof filed in a family's vault. Only metadata is kept.
type Document struct {
	ID         string           `json:"id"`
	FamilyID   string           `json:"family_id"`
	MemberID   string           `json:"member_id"`
	Category   DocumentCategory `json:"category"`
	FileName   string           `json:"file_name"`
	FileSize   string           `json:"file_size"`
	UploadDate time.Time        `json:"upload_date"`
}

// CategorySummary aggregates one asset type of a family.
type CategorySummary struct {
	Type       AssetType `json:"type"`
	TotalValue float64   `json:"total_value"`
	Count      int       `json:"count"`
	DocCount   int       `json:"doc_count"`
}

// AssetTypes lists every asset type in display order.
func AssetTypes() []AssetType {
	return []AssetType{
		AssetStocks,
		AssetFixedDeposits,
		AssetMutualFunds,
		AssetBonds,
		AssetPPF,
		AssetLifeInsurance,
		AssetTermInsurance,
	}
}
