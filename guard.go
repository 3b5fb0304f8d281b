package storeauth

import (
	"github.com/gofiber/fiber/v2"
)

// Guard protects routes behind the session cookie. Each route names the
// roles it admits; a session whose role is not listed gets a 403.
type Guard struct {
	tokens     TokenService
	contextKey string
	logger     Logger
}

// NewGuard creates a Guard over the given token service
func NewGuard(tokens TokenService, cfg Config) *Guard {
	cfg = cfg.withDefaults()

	return &Guard{
		tokens:     tokens,
		contextKey: cfg.ContextKey,
		logger:     defLogger{},
	}
}

// WithLogger sets the logger used for rejected requests
func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Protected returns a fiber handler that admits only sessions whose role
// is in the allow list. An empty list admits any valid session.
//
// Rejections map to the error taxonomy: no cookie is UNAUTHENTICATED,
// an expired token is SESSION_EXPIRED, a bad signature or shape is
// INVALID_TOKEN, claims that fail validation are VALIDATION_ERROR, and
// a role outside the allow list is FORBIDDEN.
func (g *Guard) Protected(roles ...UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(CookieAuthToken)
		if raw == "" {
			g.logger.Debug("guard rejected request without session cookie", "path", c.Path())
			return RespondError(c, ErrUnauthenticated)
		}

		claims, err := g.tokens.Validate(raw)
		if err != nil {
			if IsTokenExpiredError(err) {
				g.logger.Debug("guard rejected expired session", "path", c.Path())
				return RespondError(c, ErrSessionExpired)
			}
			g.logger.Debug("guard rejected invalid token", "path", c.Path(), "error", err)
			return RespondError(c, ErrTokenMalformed)
		}

		if err := validateSessionClaims(claims); err != nil {
			g.logger.Error("guard could not validate session claims", "path", c.Path(), "error", err)
			return RespondError(c, ErrUnableToDecodeSession)
		}

		if !RoleAllowed(claims.Role(), roles...) {
			g.logger.Info(
				"guard rejected role",
				"path", c.Path(),
				"role", claims.Role(),
				"allowed", roles,
			)
			return RespondError(c, ErrForbidden.Clone().WithMetadata(map[string]any{
				"role":     claims.Role(),
				"required": roles,
			}))
		}

		session, err := sessionFromClaims(claims)
		if err != nil {
			return RespondError(c, ErrUnableToDecodeSession)
		}

		c.Locals(g.contextKey, session)

		ctx := WithClaimsContext(c.UserContext(), claims)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// SessionFromLocals retrieves the session the guard stored for the request
func SessionFromLocals(c *fiber.Ctx, key string) (*SessionObject, bool) {
	if key == "" {
		key = DefaultContextKey
	}

	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}

	session, ok := raw.(*SessionObject)
	return session, ok
}

func validateSessionClaims(claims *TokenClaims) error {
	if claims == nil {
		return ErrUnableToDecodeSession
	}

	if !claims.IsSession() {
		return ErrUnableToDecodeSession.Clone().WithMetadata(map[string]any{
			"kind": claims.Kind,
		})
	}

	if claims.UserID() == "" {
		return ErrUnableToDecodeSession.Clone().WithMetadata(map[string]any{
			"reason": "missing subject",
		})
	}

	if !ValidRole(claims.Role()) {
		return ErrUnableToDecodeSession.Clone().WithMetadata(map[string]any{
			"reason": "unknown role",
			"role":   claims.Role(),
		})
	}

	return nil
}
