package storeauth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	// CookieAuthToken carries the login session token
	CookieAuthToken = "authToken"
	// CookieVerificationToken carries the email verification token
	CookieVerificationToken = "verificationToken"
	// CookieRecoveryToken carries the password recovery token
	CookieRecoveryToken = "tokenRecoveryCode"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RespondError writes the structured error body for any error,
// deriving status and kind from our error taxonomy.
func RespondError(c *fiber.Ctx, err error) error {
	richErr := asRichError(err)

	return c.Status(statusFromError(richErr)).JSON(ErrorBody{
		Kind:    kindFromError(richErr),
		Message: richErr.Message,
	})
}

func asRichError(err error) *errors.Error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}

	return errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
		WithCode(errors.CodeInternal)
}

func statusFromError(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func kindFromError(richErr *errors.Error) string {
	if richErr.TextCode != "" {
		return richErr.TextCode
	}
	return TextCodeValidationError
}

func setCookieToken(c *fiber.Ctx, name, val string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}
