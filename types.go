package storeauth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated account
type Identity interface {
	ID() string
	Email() string
	Role() UserRole
	Name() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	SessionFromToken(token string) (*SessionObject, error)
}

// TokenService signs and validates the tokens we hand out as cookies
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *TokenClaims) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options. Zero values fall back to package defaults.
type Config struct {
	// SigningKey is the HMAC secret used to sign every token we issue.
	SigningKey string
	Issuer     string
	Audience   []string
	// SessionTTL bounds the login session token and its cookie.
	SessionTTL time.Duration
	// VerificationTTL bounds the email verification token.
	VerificationTTL time.Duration
	// RecoveryTTL bounds both password recovery tokens.
	RecoveryTTL time.Duration
	// ContextKey is the locals key the guard stores claims under.
	ContextKey string
}

const (
	// DefaultSessionTTL is how long a login session stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultVerificationTTL is how long an email verification code stays valid.
	DefaultVerificationTTL = 2 * time.Hour
	// DefaultRecoveryTTL is how long each password recovery step stays valid.
	DefaultRecoveryTTL = 20 * time.Minute
	// DefaultContextKey is the locals key used to expose claims to handlers.
	DefaultContextKey = "session"
)

func (c Config) withDefaults() Config {
	if c.SessionTTL == 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.VerificationTTL == 0 {
		c.VerificationTTL = DefaultVerificationTTL
	}
	if c.RecoveryTTL == 0 {
		c.RecoveryTTL = DefaultRecoveryTTL
	}
	if c.ContextKey == "" {
		c.ContextKey = DefaultContextKey
	}
	return c
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
