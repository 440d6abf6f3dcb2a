package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed_Table(t *testing.T) {
	cases := []struct {
		role Role
		op   Operation
		want bool
	}{
		{RoleAdmin, OpReadList, true},
		{RoleAdmin, OpReadOne, true},
		{RoleAdmin, OpCreate, true},
		{RoleAdmin, OpUpdate, true},
		{RoleAdmin, OpDelete, true},
		{RoleUser, OpReadList, true},
		{RoleUser, OpReadOne, true},
		{RoleUser, OpCreate, false},
		{RoleUser, OpUpdate, false},
		{RoleUser, OpDelete, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsAllowed(c.role, c.op), "role=%s op=%s", c.role, c.op)
	}
}

func TestIsAllowed_UnknownRoleIsLeastPrivileged(t *testing.T) {
	for _, role := range []string{"", "root", "Admin", "ADMIN", "superuser", "administrator"} {
		assert.True(t, IsAllowed(Role(role), OpReadList), "role=%q should read", role)
		assert.True(t, IsAllowed(Role(role), OpReadOne), "role=%q should read", role)
		assert.False(t, IsAllowed(Role(role), OpCreate), "role=%q must not create", role)
		assert.False(t, IsAllowed(Role(role), OpUpdate), "role=%q must not update", role)
		assert.False(t, IsAllowed(Role(role), OpDelete), "role=%q must not delete", role)
	}
}

func TestIsAllowed_UnknownOperationDenied(t *testing.T) {
	assert.False(t, IsAllowed(RoleAdmin, Operation("drop-table")))
	assert.False(t, IsAllowed(RoleUser, Operation("")))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("admn"))
}
