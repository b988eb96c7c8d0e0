package handlers

import (
	"strconv"

	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetHandler handles asset routes
type AssetHandler struct {
	DB *gorm.DB
}

// ListAssets handles GET /api/assets?category_id=
// @Summary List assets
// @Description List the caller's assets, optionally filtered by category id
// @Tags Assets
// @Produce json
// @Param category_id query int false "Category filter"
// @Success 200 {array} models.Asset
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /assets [get]
func (h *AssetHandler) ListAssets(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "assets.list")
	}

	// No ownership check on the filter itself: a category the caller does not
	// own just produces an empty list.
	var categoryID *uint64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(c, "Invalid category_id", fiber.StatusBadRequest, "validation")
		}
		categoryID = &id
	}

	assets, err := services.ListAssets(h.DB, ident, categoryID)
	if err != nil {
		return respondError(c, err, "assets.list")
	}

	return utils.SuccessResponse(c, assets, fiber.StatusOK)
}

// CreateAsset handles POST /api/assets
// @Summary Create asset
// @Description Create an asset and its field values atomically; patrimonio is unique system-wide
// @Tags Assets
// @Accept json
// @Produce json
// @Param body body services.AssetCreateInput true "Asset"
// @Success 201 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /assets [post]
func (h *AssetHandler) CreateAsset(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "assets.create")
	}

	var input services.AssetCreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	asset, err := services.CreateAsset(h.DB, ident, input)
	if err != nil {
		return respondError(c, err, "assets.create")
	}

	return utils.SuccessResponse(c, asset, fiber.StatusCreated)
}

// GetAsset handles GET /api/assets/:id
// @Summary Retrieve asset
// @Tags Assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "assets.retrieve")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "assets.retrieve")
	}

	asset, err := services.GetAsset(h.DB, ident, id)
	if err != nil {
		return respondError(c, err, "assets.retrieve")
	}

	return utils.SuccessResponse(c, asset, fiber.StatusOK)
}

// UpdateAsset handles PUT /api/assets/:id
// @Summary Update asset
// @Description Update patrimonio/category when supplied and replace the whole value set atomically
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param body body services.AssetUpdateInput true "Asset"
// @Success 200 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "assets.update")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "assets.update")
	}

	var input services.AssetUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	asset, err := services.UpdateAsset(h.DB, ident, id, input)
	if err != nil {
		return respondError(c, err, "assets.update")
	}

	return utils.SuccessResponse(c, asset, fiber.StatusOK)
}

// DeleteAsset handles DELETE /api/assets/:id
// @Summary Delete asset
// @Tags Assets
// @Param id path int true "Asset ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *fiber.Ctx) error {
	ident, err := getIdentity(c)
	if err != nil {
		return respondError(c, err, "assets.delete")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err, "assets.delete")
	}

	if err := services.DeleteAsset(h.DB, ident, id); err != nil {
		return respondError(c, err, "assets.delete")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
