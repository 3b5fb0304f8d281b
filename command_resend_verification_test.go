package storeauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestResendVerificationAcceptsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	tokens := newTestTokens()
	mailer := &recordingMailer{}

	hash, err := storeauth.HashPassword("secret-password-1")
	require.NoError(t, err)

	_, err = repo.Customers().Register(ctx, &storeauth.Customer{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        "pepe.rone@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	// A verification token that expired an hour ago. The resend flow is
	// exactly for users who let the first code lapse.
	now := time.Now()
	expired, err := tokens.SignClaims(&storeauth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "pepe.rone@example.com",
			Audience:  jwt.ClaimStrings{"storefront"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-3 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		Kind:     storeauth.TokenKindVerification,
		Email:    "pepe.rone@example.com",
		UserType: storeauth.UserTypeCustomer,
		Code:     "a3f09c",
	})
	require.NoError(t, err)

	handler := storeauth.ResendVerificationHandler{Repo: repo, Tokens: tokens, Mailer: mailer}

	var res *storeauth.ResendVerificationResponse
	err = handler.Execute(ctx, storeauth.ResendVerificationMessage{
		Token: expired,
		OnResponse: func(resp *storeauth.ResendVerificationResponse) {
			res = resp
		},
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, "a3f09c", res.Code)
	assert.Equal(t, res.Code, mailer.last().Code)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, storeauth.TokenKindVerification, claims.Kind)
	assert.Equal(t, res.Code, claims.Code)
}

func TestResendVerificationRejectsVerifiedAccounts(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	tokens := newTestTokens()

	customer := seedVerifiedCustomer(t, repo, "pepe.rone@example.com", "secret-password-1")

	raw, _, err := storeauth.MintVerificationToken(tokens, storeauth.NewCustomerAccount(customer), storeauth.UserTypeCustomer, "a3f09c", storeauth.ScopedTokenOptions{})
	require.NoError(t, err)

	handler := storeauth.ResendVerificationHandler{Repo: repo, Tokens: tokens}

	err = handler.Execute(ctx, storeauth.ResendVerificationMessage{
		Token:      raw,
		OnResponse: func(*storeauth.ResendVerificationResponse) {},
	})

	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, storeauth.TextCodeConflict, rich.TextCode)
}
