package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/wealthguard/internal/domain"
)

type staticIdentities []domain.Identity

func (s staticIdentities) List() []domain.Identity {
	return append([]domain.Identity{}, s...)
}

var (
	alice    = domain.Identity{ID: "a", Name: "Alice", Role: domain.RoleSuperAdmin}
	bob      = domain.Identity{ID: "b", Name: "Bob", Role: domain.RoleAdmin}
	charlie  = domain.Identity{ID: "c", Name: "Charlie", Role: domain.RoleAdmin}
	david    = domain.Identity{ID: "d", Name: "David", Role: domain.RoleAssociate}
	eve      = domain.Identity{ID: "e", Name: "Eve", Role: domain.RoleAssociate}
	frank    = domain.Identity{ID: "f_acc", Name: "Frank Family", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("d")}
	isabella = domain.Identity{ID: "i_acc", Name: "Isabella Family", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("e")}
)

func newTestEngine() *Engine {
	return NewEngine(DefaultMatrix(), staticIdentities{alice, bob, charlie, david, eve, frank, isabella})
}

func ids(identities []domain.Identity) []string {
	out := make([]string, 0, len(identities))
	for _, u := range identities {
		out = append(out, u.ID)
	}
	return out
}

func TestCanImpersonateStrictDescent(t *testing.T) {
	e := newTestEngine()
	people := []domain.Identity{alice, bob, david, frank}

	for _, actor := range people {
		for _, target := range people {
			want := actor.Role.Rank() > target.Role.Rank()
			assert.Equal(t, want, e.CanImpersonate(actor, target), "%s -> %s", actor.Role, target.Role)
		}
	}

	assert.True(t, e.CanImpersonate(bob, david))
	assert.False(t, e.CanImpersonate(david, bob))
	assert.False(t, e.CanImpersonate(bob, charlie))
}

func TestCanImpersonateNeverSelf(t *testing.T) {
	e := newTestEngine()
	for _, u := range []domain.Identity{alice, bob, david, frank} {
		assert.False(t, e.CanImpersonate(u, u))
	}

	// Same id is rejected even when the role data claims otherwise.
	stale := alice
	stale.Role = domain.RoleCustomer
	assert.False(t, e.CanImpersonate(alice, stale))
}

func TestCanViewAuditLogFollowsAdminModules(t *testing.T) {
	e := newTestEngine()
	assert.True(t, e.CanViewAuditLog(alice))
	assert.False(t, e.CanViewAuditLog(bob))

	e.Matrix().Set(domain.RoleAdmin, domain.CapAdminModules, true)
	assert.True(t, e.CanViewAuditLog(bob))
}

func TestVisibleIdentitiesSuperAdminExcludesSelf(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, []string{"b", "c", "d", "e", "f_acc", "i_acc"}, ids(e.VisibleIdentities(alice)))
}

func TestVisibleIdentitiesAdmin(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, []string{"d", "e", "f_acc", "i_acc"}, ids(e.VisibleIdentities(bob)))

	e.Matrix().Set(domain.RoleAdmin, domain.CapAssociates, false)
	assert.Equal(t, []string{"f_acc", "i_acc"}, ids(e.VisibleIdentities(bob)))

	e.Matrix().Set(domain.RoleAdmin, domain.CapCustomers, false)
	assert.Empty(t, e.VisibleIdentities(bob))
}

func TestVisibleIdentitiesAssociate(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, []string{"f_acc"}, ids(e.VisibleIdentities(david)))
	assert.Equal(t, []string{"i_acc"}, ids(e.VisibleIdentities(eve)))

	e.Matrix().Set(domain.RoleAssociate, domain.CapCustomers, false)
	assert.Empty(t, e.VisibleIdentities(david))
}

func TestVisibleIdentitiesIgnoresWholeFamily(t *testing.T) {
	e := newTestEngine()
	e.Matrix().Set(domain.RoleCustomer, domain.CapWholeFamily, false)
	e.Matrix().Set(domain.RoleAdmin, domain.CapWholeFamily, false)

	assert.Equal(t, []string{"f_acc"}, ids(e.VisibleIdentities(david)))
	assert.Equal(t, []string{"d", "e", "f_acc", "i_acc"}, ids(e.VisibleIdentities(bob)))
}

func TestVisibleIdentitiesCustomerSeesNobody(t *testing.T) {
	e := newTestEngine()
	assert.Empty(t, e.VisibleIdentities(frank))
	assert.False(t, e.CanSee(frank, "f_acc"))
	assert.True(t, e.CanSee(david, "f_acc"))
}
