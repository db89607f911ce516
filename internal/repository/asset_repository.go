package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/wealthguard/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// AssetRepository stores family holdings.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByFamily(ctx context.Context, familyID string) ([]domain.Asset, error)
	Delete(ctx context.Context, id string) error
}

type assetRepository struct {
	mu     sync.RWMutex
	assets []domain.Asset
}

// NewAssetRepository returns an in-memory implementation.
func NewAssetRepository(seed ...domain.Asset) AssetRepository {
	r := &assetRepository{}
	for _, asset := range seed {
		r.assets = append(r.assets, cloneAsset(asset))
	}
	return r
}

// DefaultAssets returns the demo holdings.
func DefaultAssets() []domain.Asset {
	return []domain.Asset{
		{
			ID:          "1",
			FamilyID:    "f_acc",
			MemberID:    "f_1",
			Type:        domain.AssetStocks,
			Value:       50000,
			Details:     map[string]any{"symbol": "AAPL"},
			LastUpdated: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (r *assetRepository) Create(_ context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.assets {
		if existing.ID == asset.ID {
			return ErrDuplicate
		}
	}
	r.assets = append(r.assets, cloneAsset(*asset))
	return nil
}

func (r *assetRepository) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, asset := range r.assets {
		if asset.ID == id {
			out := cloneAsset(asset)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *assetRepository) ListByFamily(_ context.Context, familyID string) ([]domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Asset
	for _, asset := range r.assets {
		if asset.FamilyID == familyID {
			result = append(result, cloneAsset(asset))
		}
	}
	return result, nil
}

func (r *assetRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, asset := range r.assets {
		if asset.ID == id {
			r.assets = append(r.assets[:i], r.assets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func cloneAsset(asset domain.Asset) domain.Asset {
	if asset.Details != nil {
		details := make(map[string]any, len(asset.Details))
		for k, v := range asset.Details {
			details[k] = v
		}
		asset.Details = details
	}
	return asset
}
