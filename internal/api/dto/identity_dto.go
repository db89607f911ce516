package dto

import "github.com/spec-kit/wealthguard/internal/domain"

// CreateIdentityRequest payload for new identities.
type CreateIdentityRequest struct {
	ID         string  `json:"id" validate:"omitempty,max=64"`
	Name       string  `json:"name" validate:"required,max=120"`
	Email      string  `json:"email" validate:"required,email"`
	Role       string  `json:"role" validate:"required,oneof=SUPER_ADMIN ADMIN ASSOCIATE CUSTOMER"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,min=1"`
}

// Identity converts the request into a domain identity.
func (r CreateIdentityRequest) Identity() domain.Identity {
	return domain.Identity{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Role:       domain.Role(r.Role),
		AssignedTo: r.AssignedTo,
	}
}

// UpdateIdentityRequest payload for partial identity updates.
type UpdateIdentityRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Role            *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN ASSOCIATE CUSTOMER"`
	AssignedTo      *string `json:"assigned_to" validate:"omitempty,min=1"`
	ClearAssignment bool    `json:"clear_assignment"`
}

// Patch converts the request into a domain patch.
func (r UpdateIdentityRequest) Patch() domain.IdentityPatch {
	patch := domain.IdentityPatch{
		Name:            r.Name,
		Email:           r.Email,
		AssignedTo:      r.AssignedTo,
		ClearAssignment: r.ClearAssignment,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		patch.Role = &role
	}
	return patch
}

// SetPermissionRequest payload for a matrix cell.
type SetPermissionRequest struct {
	Value *bool `json:"value" validate:"required"`
}
