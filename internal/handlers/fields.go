package handlers

import (
	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FieldHandler handles field-definition routes
type FieldHandler struct {
	DB *gorm.DB
}

type fieldBody struct {
	Name      string `json:"name"`
	FieldType string `json:"field_type"`
}

// ListFields handles GET /api/categories/:id/fields
// @Summary List field definitions
// @Description List the field definitions of a category owned by the caller; a foreign category yields an empty list
// @Tags Fields
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.FieldDefinition
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories/{id}/fields [get]
func (h *FieldHandler) ListFields(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "fields.list")
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "fields.list")
	}

	fields, err := services.ListFieldDefinitions(h.DB, ident, categoryID)
	if err != nil {
		return respondError(c, err, "fields.list")
	}

	return utils.SuccessResponse(c, fields, fiber.StatusOK)
}

// CreateField handles POST /api/categories/:id/fields
// @Summary Create field definition
// @Description Declare a field on a category owned by the caller; field_type defaults to text
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body fieldBody true "Field definition"
// @Success 201 {object} models.FieldDefinition
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories/{id}/fields [post]
func (h *FieldHandler) CreateField(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "fields.create")
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "fields.create")
	}

	var body fieldBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	field, err := services.CreateFieldDefinition(h.DB, ident, categoryID, body.Name, body.FieldType)
	if err != nil {
		return respondError(c, err, "fields.create")
	}

	return utils.SuccessResponse(c, field, fiber.StatusCreated)
}

// GetField handles GET /api/fields/:id
// @Summary Retrieve field definition
// @Tags Fields
// @Produce json
// @Param id path int true "Field ID"
// @Success 200 {object} models.FieldDefinition
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /fields/{id} [get]
func (h *FieldHandler) GetField(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "fields.retrieve")
	}

	fieldID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "fields.retrieve")
	}

	field, err := services.GetFieldDefinition(h.DB, ident, fieldID)
	if err != nil {
		return respondError(c, err, "fields.retrieve")
	}

	return utils.SuccessResponse(c, field, fiber.StatusOK)
}

// UpdateField handles PUT /api/fields/:id
// @Summary Update field definition
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path int true "Field ID"
// @Param body body fieldBody true "Field definition"
// @Success 200 {object} models.FieldDefinition
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /fields/{id} [put]
func (h *FieldHandler) UpdateField(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "fields.update")
	}

	fieldID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "fields.update")
	}

	var body fieldBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	field, err := services.UpdateFieldDefinition(h.DB, ident, fieldID, body.Name, body.FieldType)
	if err != nil {
		return respondError(c, err, "fields.update")
	}

	return utils.SuccessResponse(c, field, fiber.StatusOK)
}

// DeleteField handles DELETE /api/fields/:id
// @Summary Delete field definition
// @Tags Fields
// @Param id path int true "Field ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /fields/{id} [delete]
func (h *FieldHandler) DeleteField(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "fields.delete")
	}

	fieldID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "fields.delete")
	}

	if err := services.DeleteFieldDefinition(h.DB, ident, fieldID); err != nil {
		return respondError(c, err, "fields.delete")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
