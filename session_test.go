package storeauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestSessionObject(t *testing.T) {
	id := uuid.NewString()
	issuedAt := time.Now()

	session := &storeauth.SessionObject{
		UserID:   id,
		Email:    "pepe.rone@example.com",
		Role:     storeauth.RoleEmployee,
		Audience: []string{"storefront"},
		Issuer:   "test-issuer",
		IssuedAt: &issuedAt,
	}

	t.Run("accessors", func(t *testing.T) {
		assert.Equal(t, id, session.GetUserID())
		assert.Equal(t, []string{"storefront"}, session.GetAudience())
		assert.Equal(t, "test-issuer", session.GetIssuer())
	})

	t.Run("parses the user id as a UUID", func(t *testing.T) {
		parsed, err := session.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, id, parsed.String())
		assert.True(t, storeauth.HasUserUUID(session))
	})

	t.Run("rejects non UUID user ids", func(t *testing.T) {
		bad := &storeauth.SessionObject{UserID: "not-a-uuid"}
		_, err := bad.GetUserUUID()
		assert.Error(t, err)
		assert.False(t, storeauth.HasUserUUID(bad))
		assert.False(t, storeauth.HasUserUUID(nil))
	})

	t.Run("role checks", func(t *testing.T) {
		assert.True(t, session.HasRole(storeauth.RoleEmployee))
		assert.False(t, session.HasRole(storeauth.RoleAdmin))
		assert.True(t, session.IsAtLeast(storeauth.RoleCustomer))
		assert.False(t, session.IsAtLeast(storeauth.RoleAdmin))
	})

	t.Run("string form", func(t *testing.T) {
		s := session.String()
		assert.Contains(t, s, id)
		assert.Contains(t, s, "role=employee")
	})
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	t.Run("account round trip", func(t *testing.T) {
		account := storeauth.NewCustomerAccount(&storeauth.Customer{Email: "pepe.rone@example.com"})

		ctx := storeauth.WithContext(ctx, account)
		got, ok := storeauth.FromContext(ctx)

		require.True(t, ok)
		assert.Equal(t, account, got)
	})

	t.Run("claims round trip", func(t *testing.T) {
		claims := &storeauth.TokenClaims{UserRole: storeauth.RoleAdmin}

		ctx := storeauth.WithClaimsContext(ctx, claims)
		got, ok := storeauth.GetClaims(ctx)

		require.True(t, ok)
		assert.Equal(t, claims, got)
		assert.True(t, storeauth.HasRole(ctx, storeauth.RoleAdmin))
		assert.False(t, storeauth.HasRole(ctx, storeauth.RoleCustomer))
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := storeauth.FromContext(ctx)
		assert.False(t, ok)
		_, ok = storeauth.GetClaims(ctx)
		assert.False(t, ok)
		assert.False(t, storeauth.HasRole(ctx, storeauth.RoleAdmin))
	})
}
