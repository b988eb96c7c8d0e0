package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionKey is the context local holding the negotiated api version.
const VersionKey = "apiVersion"

// Version parses the X-Api-Version header and stores it in context
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" {
			version = "1.0.0"
		}

		c.Locals(VersionKey, version)

		return c.Next()
	}
}
