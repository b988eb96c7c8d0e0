package handlers

import (
	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CategoryHandler handles category routes
type CategoryHandler struct {
	DB *gorm.DB
}

type categoryBody struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Description List the caller's categories with their field definitions
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "categories.list")
	}

	categories, err := services.ListCategories(h.DB, ident)
	if err != nil {
		return respondError(c, err, "categories.list")
	}

	return utils.SuccessResponse(c, categories, fiber.StatusOK)
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Description Create a category owned by the caller; the name is unique system-wide
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body categoryBody true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "categories.create")
	}

	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	category, err := services.CreateCategory(h.DB, ident, body.Name)
	if err != nil {
		return respondError(c, err, "categories.create")
	}

	return utils.SuccessResponse(c, category, fiber.StatusCreated)
}

// GetCategory handles GET /api/categories/:id
// @Summary Retrieve category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "categories.retrieve")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "categories.retrieve")
	}

	category, err := services.GetCategory(h.DB, ident, id)
	if err != nil {
		return respondError(c, err, "categories.retrieve")
	}

	return utils.SuccessResponse(c, category, fiber.StatusOK)
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body categoryBody true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "categories.update")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "categories.update")
	}

	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	category, err := services.UpdateCategory(h.DB, ident, id, body.Name)
	if err != nil {
		return respondError(c, err, "categories.update")
	}

	return utils.SuccessResponse(c, category, fiber.StatusOK)
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete category
// @Description Delete a category and, transitively, its field definitions, assets and values
// @Tags Categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "categories.delete")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "categories.delete")
	}

	if err := services.DeleteCategory(h.DB, ident, id); err != nil {
		return respondError(c, err, "categories.delete")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
