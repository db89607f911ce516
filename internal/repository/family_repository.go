package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// FamilyMemberRepository stores members of customer families.
type FamilyMemberRepository interface {
	Create(ctx context.Context, member *domain.FamilyMember) error
	ListByFamily(ctx context.Context, familyID string) ([]domain.FamilyMember, error)
	Delete(ctx context.Context, id string) error
}

type familyMemberRepository struct {
	mu      sync.RWMutex
	members []domain.FamilyMember
}

// NewFamilyMemberRepository returns an in-memory implementation.
func NewFamilyMemberRepository(seed ...domain.FamilyMember) FamilyMemberRepository {
	return &familyMemberRepository{members: append([]domain.FamilyMember{}, seed...)}
}

// DefaultFamilyMembers returns the demo family members.
func DefaultFamilyMembers() []domain.FamilyMember {
	return []domain.FamilyMember{
		{ID: "i_1", FamilyID: "i_acc", Name: "Isabella", Relationship: "Primary"},
		{ID: "f_1", FamilyID: "f_acc", Name: "Frank", Relationship: "Primary"},
	}
}

func (r *familyMemberRepository) Create(_ context.Context, member *domain.FamilyMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.ID == member.ID {
			return ErrDuplicate
		}
	}
	r.members = append(r.members, *member)
	return nil
}

func (r *familyMemberRepository) ListByFamily(_ context.Context, familyID string) ([]domain.FamilyMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.FamilyMember
	for _, member := range r.members {
		if member.FamilyID == familyID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (r *familyMemberRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, member := range r.members {
		if member.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
