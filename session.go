package storeauth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionObject is the decoded view of a session token we expose to
// callers of /validateAuthToken and to handlers behind the guard.
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	Email          string     `json:"email,omitempty"`
	Role           UserRole   `json:"role,omitempty"`
	Name           string     `json:"name,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

// HasRole checks if the session has a specific role
func (s *SessionObject) HasRole(role UserRole) bool {
	return s.Role == role
}

// IsAtLeast checks if the session's role is at least the minimum required role
func (s *SessionObject) IsAtLeast(minRole UserRole) bool {
	return IsAtLeast(s.Role, minRole)
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s role=%s aud=%v iss=%s iat=%s",
		s.UserID,
		s.Role,
		s.Audience,
		s.Issuer,
		issuedAt,
	)
}

// sessionFromClaims creates a SessionObject from validated token claims
func sessionFromClaims(claims *TokenClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeSession
	}

	var audience []string
	if claims.RegisteredClaims.Audience != nil {
		audience = append(audience, claims.RegisteredClaims.Audience...)
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Email:          claims.Email,
		Role:           claims.Role(),
		Name:           claims.Name,
		Audience:       audience,
		Issuer:         claims.RegisteredClaims.Issuer,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
