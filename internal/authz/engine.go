package authz

import "github.com/spec-kit/wealthguard/internal/domain"

// IdentityLister supplies the identities a visibility scope is computed over.
type IdentityLister interface {
	List() []domain.Identity
}

// Engine answers authorization questions from the matrix and the directory.
type Engine struct {
	matrix     *Matrix
	identities IdentityLister
}

// NewEngine constructs an engine.
func NewEngine(matrix *Matrix, identities IdentityLister) *Engine {
	return &Engine{matrix: matrix, identities: identities}
}

// Matrix returns the backing permission matrix.
func (e *Engine) Matrix() *Matrix {
	return e.matrix
}

// HasPermission reports whether the actor's role holds capability.
func (e *Engine) HasPermission(actor domain.Identity, capability domain.Capability) bool {
	return e.matrix.Check(actor.Role, capability)
}

// CanImpersonate allows strict descent in rank only, never self-impersonation.
func (e *Engine) CanImpersonate(actor, target domain.Identity) bool {
	if actor.ID == target.ID {
		return false
	}
	return actor.Role.Outranks(target.Role)
}

// CanViewAuditLog reports whether the actor may read the audit trail.
func (e *Engine) CanViewAuditLog(actor domain.Identity) bool {
	return e.HasPermission(actor, domain.CapAdminModules)
}

// VisibleIdentities returns the identities actor may see or manage, in directory order.
// Role picks the candidate classes and the matrix must also grant each class.
func (e *Engine) VisibleIdentities(actor domain.Identity) []domain.Identity {
	all := e.identities.List()
	out := make([]domain.Identity, 0, len(all))

	switch actor.Role {
	case domain.RoleSuperAdmin:
		for _, u := range all {
			if u.ID != actor.ID {
				out = append(out, u)
			}
		}
	case domain.RoleAdmin:
		seeAssociates := e.HasPermission(actor, domain.CapAssociates)
		seeCustomers := e.HasPermission(actor, domain.CapCustomers)
		for _, u := range all {
			switch {
			case u.Role == domain.RoleAssociate && seeAssociates:
				out = append(out, u)
			case u.Role == domain.RoleCustomer && seeCustomers:
				out = append(out, u)
			}
		}
	case domain.RoleAssociate:
		if !e.HasPermission(actor, domain.CapCustomers) {
			return out
		}
		for _, u := range all {
			if u.Role == domain.RoleCustomer && u.AssignedToID() == actor.ID {
				out = append(out, u)
			}
		}
	}
	return out
}

// CanSee reports whether target falls inside actor's visibility scope.
func (e *Engine) CanSee(actor domain.Identity, targetID string) bool {
	for _, u := range e.VisibleIdentities(actor) {
		if u.ID == targetID {
			return true
		}
	}
	return false
}
