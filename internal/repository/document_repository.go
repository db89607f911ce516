package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// DocumentRepository stores vault document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByFamily(ctx context.Context, familyID string) ([]domain.Document, error)
}

type documentRepository struct {
	mu   sync.RWMutex
	docs []domain.Document
}

// NewDocumentRepository returns an in-memory implementation.
func NewDocumentRepository(seed ...domain.Document) DocumentRepository {
	return &documentRepository{docs: append([]domain.Document{}, seed...)}
}

func (r *documentRepository) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.docs {
		if existing.ID == doc.ID {
			return ErrDuplicate
		}
	}
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *documentRepository) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.docs {
		if doc.ID == id {
			out := doc
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *documentRepository) ListByFamily(_ context.Context, familyID string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Document
	for _, doc := range r.docs {
		if doc.FamilyID == familyID {
			result = append(result, doc)
		}
	}
	return result, nil
}
