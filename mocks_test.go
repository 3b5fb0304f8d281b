package storeauth_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	storeauth "github.com/mercatolabs/go-storeauth"
)

// Password hashing dominates signup and login latency, so in-process
// requests get a generous deadline instead of fiber's 1s default.
const testTimeoutMs = 30 * 1000

// MockLogger implements storeauth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type sentCode struct {
	To      string
	Code    string
	Purpose storeauth.CodePurpose
}

// recordingMailer captures outbound codes instead of sending email
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentCode
	fail bool
}

func (m *recordingMailer) SendCode(_ context.Context, to, code string, purpose storeauth.CodePurpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return storeauth.ErrMailDispatchFailed
	}

	m.sent = append(m.sent, sentCode{To: to, Code: code, Purpose: purpose})
	return nil
}

func (m *recordingMailer) last() sentCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return sentCode{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func testConfig() storeauth.Config {
	return storeauth.Config{
		SigningKey: "test-signing-key",
		Issuer:     "test-issuer",
		Audience:   []string{"storefront"},
	}
}

func newTestTokens() storeauth.TokenService {
	return storeauth.NewTokenService(
		[]byte("test-signing-key"),
		0,
		"test-issuer",
		jwt.ClaimStrings{"storefront"},
		nil,
	)
}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*storeauth.Customer)(nil),
		(*storeauth.Employee)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background())
		require.NoError(t, err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestRepo(t *testing.T) storeauth.RepositoryManager {
	t.Helper()
	return storeauth.NewRepositoryManager(setupTestDB(t))
}

func newTestApp(t *testing.T, mailer storeauth.CodeMailer) (*fiber.App, storeauth.RepositoryManager, storeauth.TokenService) {
	t.Helper()

	repo := setupTestRepo(t)
	tokens := newTestTokens()

	app := fiber.New()
	storeauth.RegisterAuthRoutes(app,
		storeauth.WithConfig(testConfig()),
		storeauth.WithRepositoryManager(repo),
		storeauth.WithTokenService(tokens),
		storeauth.WithMailer(mailer),
	)

	return app, repo, tokens
}

func jsonReq(method, target string, body any, cookies ...*http.Cookie) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func seedVerifiedCustomer(t *testing.T, repo storeauth.RepositoryManager, email, password string) *storeauth.Customer {
	t.Helper()

	hash, err := storeauth.HashPassword(password)
	require.NoError(t, err)

	record, err := repo.Customers().Register(context.Background(), &storeauth.Customer{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        email,
		PasswordHash: hash,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Customers().MarkVerified(context.Background(), email))
	record.EmailValidated = true

	return record
}

func seedEmployee(t *testing.T, repo storeauth.RepositoryManager, email, password string, role storeauth.UserRole) *storeauth.Employee {
	t.Helper()

	hash, err := storeauth.HashPassword(password)
	require.NoError(t, err)

	record, err := repo.Employees().Register(context.Background(), &storeauth.Employee{
		FirstName:      "Back",
		LastName:       "Office",
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		EmailValidated: true,
	})
	require.NoError(t, err)

	return record
}
