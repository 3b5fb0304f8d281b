package storeauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeUnauthenticated means the request carried no session cookie.
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	// TextCodeSessionExpired means the session token is past its expiry.
	TextCodeSessionExpired = "SESSION_EXPIRED"
	// TextCodeInvalidToken means the token failed signature or shape checks.
	TextCodeInvalidToken = "INVALID_TOKEN"
	// TextCodeTokenExpired means a verification or recovery token expired.
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeNoToken means a flow cookie was expected but not present.
	TextCodeNoToken = "NO_TOKEN"
	// TextCodeForbidden means the role is not in the route allow list.
	TextCodeForbidden = "FORBIDDEN"
	// TextCodeValidationError means token claims did not validate.
	TextCodeValidationError = "VALIDATION_ERROR"
	// TextCodeBadCode means the submitted code does not match the token.
	TextCodeBadCode = "BAD_CODE"
	// TextCodeNotVerified means a step ran before its prerequisite step.
	TextCodeNotVerified = "NOT_VERIFIED"
	// TextCodeNotFound means no account matches the given email.
	TextCodeNotFound = "NOT_FOUND"
	// TextCodeConflict means the email is already registered.
	TextCodeConflict = "CONFLICT"
	// TextCodeMailDispatchFailed means the code email could not be sent.
	TextCodeMailDispatchFailed = "MAIL_DISPATCH_FAILED"
	// TextCodeInvalidCredentials means email and password did not match.
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeEmptyPassword means an empty password was provided.
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// ErrUnauthenticated is returned when a protected route has no session cookie.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrSessionExpired is returned when the session token expired.
var ErrSessionExpired = errors.New("session expired", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a verification or recovery token expired.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or parsing.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrNoToken is returned when a flow expects a cookie that is missing.
var ErrNoToken = errors.New("token cookie not found", errors.CategoryAuth).
	WithTextCode(TextCodeNoToken).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the session role is not allowed on a route.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrUnableToDecodeSession is returned when token claims fail validation.
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryInternal).
	WithTextCode(TextCodeValidationError).
	WithCode(errors.CodeInternal)

// ErrBadCode is returned when the submitted code does not match the token code.
var ErrBadCode = errors.New("code does not match", errors.CategoryValidation).
	WithTextCode(TextCodeBadCode).
	WithCode(errors.CodeBadRequest)

// ErrNotVerified is returned when a recovery step runs out of order.
var ErrNotVerified = errors.New("code has not been verified", errors.CategoryAuthz).
	WithTextCode(TextCodeNotVerified).
	WithCode(errors.CodeForbidden)

// ErrAccountNotFound is returned when no account matches the email.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeConflict).
	WithCode(errors.CodeConflict)

// ErrMailDispatchFailed is returned when the code email could not be sent.
var ErrMailDispatchFailed = errors.New("failed to send code email", errors.CategoryOperation).
	WithTextCode(TextCodeMailDispatchFailed).
	WithCode(errors.CodeInternal)

// ErrInvalidCredentials is returned for bad email and password combinations.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the bcrypt mismatch mapped to our taxonomy.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeInvalidToken {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
