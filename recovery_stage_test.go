package storeauth_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestCanTransitionStage(t *testing.T) {
	assert.True(t, storeauth.CanTransitionStage(storeauth.StageRequested, storeauth.StageCodeVerified))
	assert.True(t, storeauth.CanTransitionStage(storeauth.StageCodeVerified, storeauth.StageCodeVerified))
	assert.False(t, storeauth.CanTransitionStage(storeauth.StageCodeVerified, storeauth.StageRequested))
	assert.False(t, storeauth.CanTransitionStage(storeauth.StageRequested, storeauth.StageRequested))
	assert.False(t, storeauth.CanTransitionStage("bogus", storeauth.StageCodeVerified))
}

func TestEnsureStage(t *testing.T) {
	t.Run("accepts the matching stage", func(t *testing.T) {
		claims := &storeauth.TokenClaims{Stage: storeauth.StageRequested}
		assert.NoError(t, storeauth.EnsureStage(claims, storeauth.StageRequested))
	})

	t.Run("flags a password change before code verification", func(t *testing.T) {
		claims := &storeauth.TokenClaims{Stage: storeauth.StageRequested}
		err := storeauth.EnsureStage(claims, storeauth.StageCodeVerified)

		require.Error(t, err)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, storeauth.TextCodeNotVerified, rich.TextCode)
	})

	t.Run("flags any other stage mismatch as invalid", func(t *testing.T) {
		claims := &storeauth.TokenClaims{Stage: storeauth.StageCodeVerified}
		err := storeauth.EnsureStage(claims, storeauth.StageRequested)

		require.Error(t, err)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.NotEqual(t, storeauth.TextCodeNotVerified, rich.TextCode)
	})

	t.Run("rejects nil claims", func(t *testing.T) {
		assert.Error(t, storeauth.EnsureStage(nil, storeauth.StageRequested))
	})
}
