package handlers

import (
	"errors"
	"strconv"

	"github.com/gestok/patrimonio-api/internal/middleware"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// getIdentity extracts the caller identity from context (set by auth middleware)
func getIdentity(c *fiber.Ctx) (types.Identity, error) {
	ident, ok := c.Locals(middleware.IdentityKey).(types.Identity)
	if !ok || !ident.IsAuthenticated() {
		return types.Identity{}, types.NewPermissionError("identity not found in request context")
	}
	return ident, nil
}

// parseIDParam parses a numeric path parameter. A malformed id behaves like an
// absent resource.
func parseIDParam(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewNotFoundError("Resource")
	}
	return id, nil
}

// respondError maps a service error to the wire. Taxonomy errors keep their
// status and type; anything else is an internal error.
func respondError(c *fiber.Ctx, err error, context string) error {
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		return utils.CustomErrorResponse(c, customErr)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, context)
}
