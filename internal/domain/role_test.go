package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankStrictlyDecreasing(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 4)
	for i := 1; i < len(roles); i++ {
		assert.Greater(t, roles[i-1].Rank(), roles[i].Rank(), "%s should outrank %s", roles[i-1], roles[i])
	}
	assert.Equal(t, 4, RoleSuperAdmin.Rank())
	assert.Equal(t, 1, RoleCustomer.Rank())
}

func TestOutranksIsStrict(t *testing.T) {
	assert.True(t, RoleAdmin.Outranks(RoleAssociate))
	assert.False(t, RoleAssociate.Outranks(RoleAdmin))
	assert.False(t, RoleAdmin.Outranks(RoleAdmin))
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	_, err := ParseRole("ROOT")
	require.Error(t, err)

	role, err := ParseRole("ASSOCIATE")
	require.NoError(t, err)
	assert.Equal(t, RoleAssociate, role)
}

func TestIdentityJSONUsesTokenStrings(t *testing.T) {
	identity := Identity{ID: "f", Name: "Frank", Email: "f@x.io", Role: RoleCustomer, AssignedTo: StringPtr("d")}

	data, err := json.Marshal(identity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f","name":"Frank","email":"f@x.io","role":"CUSTOMER","assigned_to":"d"}`, string(data))

	var decoded Identity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, identity, decoded)

	err = json.Unmarshal([]byte(`{"id":"x","role":"OWNER"}`), &decoded)
	require.Error(t, err)
}

func TestParseCapability(t *testing.T) {
	for _, c := range Capabilities() {
		parsed, err := ParseCapability(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCapability("EXPORT_CSV")
	require.Error(t, err)
}

func TestPatchApplyDoesNotAliasInput(t *testing.T) {
	before := Identity{ID: "f", Name: "Frank", Role: RoleCustomer, AssignedTo: StringPtr("d")}
	patched := IdentityPatch{Name: StringPtr("Franklin"), ClearAssignment: true}.Apply(before)

	assert.Equal(t, "Franklin", patched.Name)
	assert.Nil(t, patched.AssignedTo)
	assert.Equal(t, "Frank", before.Name)
	assert.Equal(t, "d", before.AssignedToID())
}
