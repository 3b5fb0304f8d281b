package storeauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// ScopedTokenOptions controls how the mint helpers issue short-lived tokens.
type ScopedTokenOptions struct {
	// TTL overrides the default token expiration. Zero uses flow defaults.
	TTL time.Duration
	// Issuer overrides the default issuer if provided.
	Issuer string
	// Audience overrides the default audience if provided.
	Audience []string
	// IssuedAt overrides the issuance time. Zero uses time.Now().
	IssuedAt time.Time
}

type tokenDefaults struct {
	issuer   string
	audience jwt.ClaimStrings
	ttl      time.Duration
}

type tokenDefaultsProvider interface {
	tokenDefaults() tokenDefaults
}

type expiredTokenParser interface {
	ParseExpired(tokenString string) (*TokenClaims, error)
}

// MintVerificationToken mints the email verification token carrying the
// challenge code. The default TTL is DefaultVerificationTTL.
func MintVerificationToken(tokenService TokenService, identity Identity, userType UserType, code string, opts ScopedTokenOptions) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}
	if code == "" {
		return "", time.Time{}, goerrors.New("verification code is required", goerrors.CategoryBadInput)
	}

	if opts.TTL == 0 {
		opts.TTL = DefaultVerificationTTL
	}

	claims := &TokenClaims{
		Kind:     TokenKindVerification,
		UID:      identity.ID(),
		UserRole: identity.Role(),
		Email:    identity.Email(),
		Name:     identity.Name(),
		UserType: userType,
		Code:     code,
	}

	return mintScopedToken(tokenService, claims, identity.ID(), opts)
}

// MintRecoveryToken mints a password recovery token for the given stage.
// The default TTL is DefaultRecoveryTTL and it applies per stage, so a
// stage transition restarts the clock.
func MintRecoveryToken(tokenService TokenService, email string, userType UserType, code string, stage RecoveryStage, opts ScopedTokenOptions) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, goerrors.New("email is required", goerrors.CategoryBadInput)
	}
	if !ValidStage(stage) {
		return "", time.Time{}, goerrors.New("invalid recovery stage", goerrors.CategoryBadInput)
	}

	if opts.TTL == 0 {
		opts.TTL = DefaultRecoveryTTL
	}

	claims := &TokenClaims{
		Kind:     TokenKindRecovery,
		Email:    email,
		UserType: userType,
		Code:     code,
		Stage:    stage,
	}

	return mintScopedToken(tokenService, claims, email, opts)
}

func mintScopedToken(tokenService TokenService, claims *TokenClaims, subject string, opts ScopedTokenOptions) (string, time.Time, error) {
	if tokenService == nil {
		return "", time.Time{}, goerrors.New("token service is required", goerrors.CategoryBadInput)
	}

	issuer := opts.Issuer
	audience := opts.Audience
	ttl := opts.TTL

	if defaultsProvider, ok := tokenService.(tokenDefaultsProvider); ok {
		defaults := defaultsProvider.tokenDefaults()
		if issuer == "" {
			issuer = defaults.issuer
		}
		if len(audience) == 0 {
			audience = defaults.audience
		}
		if ttl == 0 {
			ttl = defaults.ttl
		}
	}

	if ttl < 0 {
		return "", time.Time{}, goerrors.New("token TTL must be non-negative", goerrors.CategoryBadInput)
	}

	issuedAt := opts.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	expiresAt := issuedAt.Add(ttl)

	var aud jwt.ClaimStrings
	if len(audience) > 0 {
		aud = make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
	}

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  aud,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	ensureTokenID(&claims.RegisteredClaims)

	token, err := tokenService.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}
