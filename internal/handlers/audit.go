package handlers

import (
	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuditHandler handles the audit trail route. Access is role-gated by the
// RequireRoles middleware with the configured audit roles.
type AuditHandler struct {
	DB *gorm.DB
}

// ListAuditEvents handles GET /api/audit?owner=&limit=
// @Summary List audit events
// @Description List recent mutations, newest first, optionally filtered by owner
// @Tags Audit
// @Produce json
// @Param owner query string false "Owner filter"
// @Param limit query int false "Maximum events (default 100)"
// @Success 200 {array} models.AuditEvent
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /audit [get]
func (h *AuditHandler) ListAuditEvents(c *fiber.Ctx) error {
	if _, err := getIdentity(c); err != nil {
		return respondError(c, err, "audit.list")
	}

	events, err := services.ListAuditEvents(h.DB, c.Query("owner"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err, "audit.list")
	}

	return utils.SuccessResponse(c, events, fiber.StatusOK)
}
