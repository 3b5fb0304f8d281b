package storeauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind discriminates the three families of tokens we issue.
type TokenKind = string

const (
	// TokenKindSession is a login session token
	TokenKindSession TokenKind = "session"
	// TokenKindVerification is an email verification token
	TokenKindVerification TokenKind = "verification"
	// TokenKindRecovery is a password recovery token
	TokenKindRecovery TokenKind = "recovery"
)

// TokenClaims is the claim set carried by every token we sign. Session
// tokens use UID, UserRole, and Name. Verification and recovery tokens
// additionally carry the challenge code, and recovery tokens the stage.
type TokenClaims struct {
	jwt.RegisteredClaims
	Kind     TokenKind     `json:"kind,omitempty"`
	UID      string        `json:"uid,omitempty"`
	UserRole UserRole      `json:"role,omitempty"`
	Email    string        `json:"email,omitempty"`
	Name     string        `json:"name,omitempty"`
	UserType UserType      `json:"user_type,omitempty"`
	Code     string        `json:"code,omitempty"`
	Stage    RecoveryStage `json:"stage,omitempty"`
}

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the global role
func (c *TokenClaims) Role() UserRole {
	return c.UserRole
}

// HasRole checks if the claims carry a specific role
func (c *TokenClaims) HasRole(role UserRole) bool {
	return c.UserRole == role
}

// IsSession reports whether the claims belong to a login session token
func (c *TokenClaims) IsSession() bool {
	return c.Kind == TokenKindSession
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
