package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Auther authenticates accounts against the directory and issues
// session tokens.
type Auther struct {
	repo         RepositoryManager
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	cfg = cfg.withDefaults()

	tokenService := NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.SessionTTL,
		cfg.Issuer,
		cfg.Audience,
		defLogger{},
	)

	return &Auther{
		repo:         repo,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService sets a custom token service, mostly useful for tests.
func (s *Auther) WithTokenService(tokenService TokenService) *Auther {
	if tokenService != nil {
		s.tokenService = tokenService
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login resolves the email across both account tables, rejects unverified
// accounts, compares the password, and mints a session token.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.repo.Directory().Resolve(ctx, email)
	if err != nil {
		s.logger.Error("Login resolve account error", "error", err)
		if goerrors.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !account.IsVerified() {
		s.logger.Warn("Login blocked, account not verified", "email", account.Email())
		return "", ErrNotVerified.Clone().WithMetadata(map[string]any{
			"email": account.Email(),
		})
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash()); err != nil {
		s.logger.Warn("Login password mismatch", "email", account.Email())
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(account)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	s.trackLogin(ctx, account)

	return token, nil
}

// SessionFromToken validates a session token and returns its session view
func (s *Auther) SessionFromToken(raw string) (*SessionObject, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	if !claims.IsSession() {
		s.logger.Error("SessionFromToken received a non session token", "kind", claims.Kind)
		return nil, ErrTokenMalformed
	}

	session, err := sessionFromClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

func (s *Auther) trackLogin(ctx context.Context, account *Account) {
	now := time.Now()

	var err error
	switch account.Type {
	case UserTypeCustomer:
		record := account.Customer
		record.LoggedInAt = &now
		_, err = s.repo.Customers().Update(ctx, record, repository.UpdateByID(record.ID.String()))
	case UserTypeEmployee:
		record := account.Employee
		record.LoggedInAt = &now
		_, err = s.repo.Employees().Update(ctx, record, repository.UpdateByID(record.ID.String()))
	}

	if err != nil {
		s.logger.Warn("Login could not track login timestamp", "error", err)
	}
}
