package storeauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestValidRole(t *testing.T) {
	assert.True(t, storeauth.ValidRole(storeauth.RoleCustomer))
	assert.True(t, storeauth.ValidRole(storeauth.RoleEmployee))
	assert.True(t, storeauth.ValidRole(storeauth.RoleAdmin))
	assert.False(t, storeauth.ValidRole("superuser"))
	assert.False(t, storeauth.ValidRole(""))
}

func TestRoleAllowed(t *testing.T) {
	t.Run("empty allow list admits any valid role", func(t *testing.T) {
		assert.True(t, storeauth.RoleAllowed(storeauth.RoleCustomer))
		assert.True(t, storeauth.RoleAllowed(storeauth.RoleAdmin))
		assert.False(t, storeauth.RoleAllowed("superuser"))
	})

	t.Run("explicit allow list restricts membership", func(t *testing.T) {
		assert.True(t, storeauth.RoleAllowed(storeauth.RoleAdmin, storeauth.RoleEmployee, storeauth.RoleAdmin))
		assert.False(t, storeauth.RoleAllowed(storeauth.RoleCustomer, storeauth.RoleEmployee, storeauth.RoleAdmin))
	})
}

func TestIsAtLeast(t *testing.T) {
	assert.True(t, storeauth.IsAtLeast(storeauth.RoleAdmin, storeauth.RoleCustomer))
	assert.True(t, storeauth.IsAtLeast(storeauth.RoleEmployee, storeauth.RoleEmployee))
	assert.False(t, storeauth.IsAtLeast(storeauth.RoleCustomer, storeauth.RoleEmployee))
	assert.False(t, storeauth.IsAtLeast("superuser", storeauth.RoleCustomer))
}

func TestParseRole(t *testing.T) {
	role, ok := storeauth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, storeauth.RoleAdmin, role)

	_, ok = storeauth.ParseRole("superuser")
	assert.False(t, ok)
}

func TestValidUserType(t *testing.T) {
	assert.True(t, storeauth.ValidUserType(storeauth.UserTypeCustomer))
	assert.True(t, storeauth.ValidUserType(storeauth.UserTypeEmployee))
	assert.False(t, storeauth.ValidUserType(storeauth.UserType("vendor")))
}
