package middleware

import (
	"github.com/gestok/patrimonio-api/internal/config"
	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the request-local under which the resolved caller identity is
// stored.
const IdentityKey = "identity"

// AuthUser validates that the request carries an authenticated session and
// resolves the caller identity into request locals.
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg)
	}
}

// RequireRoles allows the request through only when the identity already
// resolved into request locals carries one of roles. Mounted after AuthUser;
// which roles gate which surface is configuration, not code.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := c.Locals(IdentityKey).(types.Identity)
		if !ok || !ident.HasRole(roles...) {
			return types.NewPermissionError("Insufficient role")
		}
		return c.Next()
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, cfg *config.Config) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return types.NewPermissionError("Authorizer cookie \"cookie_session\" not found")
	}

	// The Authorizer client is created on the first authenticated request,
	// when the request protocol and host are known.
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return types.NewPermissionError("Identity provider unavailable")
		}
	}

	// Every authenticated account carries the base user role.
	ident, err := services.ValidateSession(session, []string{types.RoleUser})
	if err != nil {
		return types.NewPermissionError("Invalid session")
	}

	c.Locals(IdentityKey, ident)

	return c.Next()
}
