package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"security", RoleSecurity, false},
		{"resident", RoleResident, false},
		{"Admin", RoleUnknown, true}, // no case folding, stored values are canonical
		{"superuser", RoleUnknown, true},
		{"", RoleUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleSecurity, RoleResident} {
		parsed, err := ParseRole(r.String())
		assert.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	assert.Equal(t, "unknown", RoleUnknown.String())
}

// TestPolicyTable pins the full role × action matrix. A change here is
// a change to who can touch what, and should be made deliberately.
func TestPolicyTable(t *testing.T) {
	tests := []struct {
		action   Action
		admin    Decision
		security Decision
		resident Decision
	}{
		{ActionUserFind, Allow, Deny, Deny},
		{ActionUserRegister, Allow, Deny, Deny},
		{ActionUserUpdate, Allow, Deny, Deny},
		{ActionUserDelete, Allow, Deny, Deny},
		{ActionApprovalReview, Deny, Allow, Deny},
		{ActionApprovalGrant, Deny, Allow, Deny},
		{ActionVisitorRegister, Allow, Allow, Allow},
		{ActionVisitorFind, Allow, Allow, AllowOwn},
		{ActionVisitorUpdate, Allow, AllowOwn, AllowOwn},
		{ActionVisitorDelete, Allow, AllowOwn, AllowOwn},
		{ActionVisitorListAll, Allow, Deny, Deny},
		{ActionVisitorListOwn, Deny, Deny, Allow},
		{ActionUnitPhoneFind, Deny, Allow, Deny},
		{ActionLogCheckIn, Allow, Allow, Deny},
		{ActionLogCheckOut, Allow, Allow, Deny},
		{ActionLogFind, Allow, Allow, Deny},
		{ActionPassIssue, Allow, Allow, Allow},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.admin, Decide(RoleAdmin, tt.action), "admin")
			assert.Equal(t, tt.security, Decide(RoleSecurity, tt.action), "security")
			assert.Equal(t, tt.resident, Decide(RoleResident, tt.action), "resident")
		})
	}
}

func TestDecideUnknowns(t *testing.T) {
	// Unrecognized roles and actions must both deny.
	assert.Equal(t, Deny, Decide(RoleUnknown, ActionVisitorFind))
	assert.Equal(t, Deny, Decide(Role(42), ActionVisitorFind))
	assert.Equal(t, Deny, Decide(RoleAdmin, Action("visitor:frobnicate")))
}

func TestScopeFor(t *testing.T) {
	scope, ok := ScopeFor(RoleAdmin, ActionVisitorFind, "boss")
	assert.True(t, ok)
	assert.True(t, scope.All)
	assert.Empty(t, scope.OwnerID)

	scope, ok = ScopeFor(RoleResident, ActionVisitorFind, "alice")
	assert.True(t, ok)
	assert.False(t, scope.All)
	assert.Equal(t, "alice", scope.OwnerID)

	_, ok = ScopeFor(RoleResident, ActionVisitorListAll, "alice")
	assert.False(t, ok)

	// An owner-scoped grant without a caller identity sees nothing.
	_, ok = ScopeFor(RoleResident, ActionVisitorFind, "")
	assert.False(t, ok)
}
