package storeauth_test

import (
	stderrors "errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, storeauth.IsTokenExpiredError(storeauth.ErrTokenExpired))
	assert.True(t, storeauth.IsTokenExpiredError(stderrors.New("token is expired")))
	assert.False(t, storeauth.IsTokenExpiredError(storeauth.ErrTokenMalformed))
	assert.False(t, storeauth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, storeauth.IsMalformedError(storeauth.ErrTokenMalformed))
	assert.True(t, storeauth.IsMalformedError(stderrors.New("token is malformed")))
	assert.True(t, storeauth.IsMalformedError(stderrors.New("missing or malformed JWT")))
	assert.False(t, storeauth.IsMalformedError(storeauth.ErrTokenExpired))
	assert.False(t, storeauth.IsMalformedError(nil))
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		textCode string
		code     int
	}{
		{"unauthenticated", storeauth.ErrUnauthenticated, storeauth.TextCodeUnauthenticated, 401},
		{"session expired", storeauth.ErrSessionExpired, storeauth.TextCodeSessionExpired, 401},
		{"token expired", storeauth.ErrTokenExpired, storeauth.TextCodeTokenExpired, 401},
		{"malformed token", storeauth.ErrTokenMalformed, storeauth.TextCodeInvalidToken, 401},
		{"no token", storeauth.ErrNoToken, storeauth.TextCodeNoToken, 401},
		{"forbidden", storeauth.ErrForbidden, storeauth.TextCodeForbidden, 403},
		{"undecodable session", storeauth.ErrUnableToDecodeSession, storeauth.TextCodeValidationError, 500},
		{"bad code", storeauth.ErrBadCode, storeauth.TextCodeBadCode, 400},
		{"not verified", storeauth.ErrNotVerified, storeauth.TextCodeNotVerified, 403},
		{"account not found", storeauth.ErrAccountNotFound, storeauth.TextCodeNotFound, 404},
		{"email taken", storeauth.ErrEmailTaken, storeauth.TextCodeConflict, 409},
		{"mail dispatch failed", storeauth.ErrMailDispatchFailed, storeauth.TextCodeMailDispatchFailed, 500},
		{"invalid credentials", storeauth.ErrInvalidCredentials, storeauth.TextCodeInvalidCredentials, 401},
		{"empty password", storeauth.ErrNoEmptyString, storeauth.TextCodeEmptyPassword, 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rich *goerrors.Error
			require.True(t, goerrors.As(tc.err, &rich))
			assert.Equal(t, tc.textCode, rich.TextCode)
			assert.Equal(t, tc.code, rich.Code)
		})
	}
}

func TestErrorClonesKeepTheTaxonomy(t *testing.T) {
	err := storeauth.ErrForbidden.Clone().WithMetadata(map[string]any{"role": "customer"})

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, storeauth.TextCodeForbidden, rich.TextCode)
	assert.Equal(t, "customer", rich.Metadata["role"])

	var base *goerrors.Error
	require.True(t, goerrors.As(storeauth.ErrForbidden, &base))
	assert.Nil(t, base.Metadata)
}
