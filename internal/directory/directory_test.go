package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wealthguard/internal/domain"
)

func newSeeded(t *testing.T) *Directory {
	t.Helper()
	d, err := New(DefaultSeed()...)
	require.NoError(t, err)
	return d
}

func TestListPreservesInsertionOrder(t *testing.T) {
	d := newSeeded(t)
	require.NoError(t, d.Add(domain.Identity{ID: "z", Name: "Zed", Role: domain.RoleAdmin}))

	var got []string
	for _, u := range d.List() {
		got = append(got, u.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f_acc", "i_acc", "z"}, got)
	assert.Equal(t, 8, d.Len())
}

func TestAddRejectsDuplicatesAndBadAssignments(t *testing.T) {
	d := newSeeded(t)

	err := d.Add(domain.Identity{ID: "a", Name: "Again", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	err = d.Add(domain.Identity{ID: "g", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("b")})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	err = d.Add(domain.Identity{ID: "g", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("ghost")})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	err = d.Add(domain.Identity{ID: "g", Role: domain.RoleAdmin, AssignedTo: domain.StringPtr("d")})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	err = d.Add(domain.Identity{ID: "", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	err = d.Add(domain.Identity{ID: "g", Role: domain.Role("OWNER")})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	assert.Equal(t, 7, d.Len())
}

func TestSeedOrderMatters(t *testing.T) {
	_, err := New(
		domain.Identity{ID: "f", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("d")},
		domain.Identity{ID: "d", Role: domain.RoleAssociate},
	)
	require.ErrorIs(t, err, ErrInvalidAssignment)
}

func TestUpdate(t *testing.T) {
	d := newSeeded(t)

	updated, err := d.Update("f_acc", domain.IdentityPatch{Name: domain.StringPtr("Frank & Co"), AssignedTo: domain.StringPtr("e")})
	require.NoError(t, err)
	assert.Equal(t, "Frank & Co", updated.Name)
	assert.Equal(t, "e", updated.AssignedToID())

	stored, ok := d.Find("f_acc")
	require.True(t, ok)
	assert.Equal(t, updated, stored)

	_, err = d.Update("nobody", domain.IdentityPatch{Name: domain.StringPtr("x")})
	require.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = d.Update("f_acc", domain.IdentityPatch{AssignedTo: domain.StringPtr("a")})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	admin := domain.RoleAdmin
	_, err = d.Update("e", domain.IdentityPatch{Role: &admin})
	require.ErrorIs(t, err, ErrIdentityReferenced)
}

func TestUpdateRejectsSelfAssignment(t *testing.T) {
	d, err := New(domain.Identity{ID: "x", Name: "Xavier", Role: domain.RoleAssociate})
	require.NoError(t, err)

	customer := domain.RoleCustomer
	_, err = d.Update("x", domain.IdentityPatch{Role: &customer, AssignedTo: domain.StringPtr("x")})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	stored, ok := d.Find("x")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAssociate, stored.Role)
	assert.Nil(t, stored.AssignedTo)
}

func TestDeleteReferencedAssociateIsRejected(t *testing.T) {
	d := newSeeded(t)

	_, err := d.Delete("d")
	require.ErrorIs(t, err, ErrIdentityReferenced)
	_, ok := d.Find("d")
	assert.True(t, ok)

	removed, err := d.Delete("f_acc")
	require.NoError(t, err)
	assert.Equal(t, "f_acc", removed.ID)

	_, err = d.Delete("d")
	require.NoError(t, err)
	_, ok = d.Find("d")
	assert.False(t, ok)

	_, err = d.Delete("d")
	require.ErrorIs(t, err, ErrIdentityNotFound)
	assert.Equal(t, 5, d.Len())
}

func TestFindReturnsCopy(t *testing.T) {
	d := newSeeded(t)

	u, ok := d.Find("f_acc")
	require.True(t, ok)
	*u.AssignedTo = "e"

	again, _ := d.Find("f_acc")
	assert.Equal(t, "d", again.AssignedToID())
}
