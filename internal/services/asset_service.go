// asset_service.go
//
// Multi-tenant asset inventory service.
// Copyright (c) 2026 Gestok <dev@gestok.dev>
//
// This file is part of patrimonio-api.
// patrimonio-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// patrimonio-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with patrimonio-api.
// If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"fmt"

	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// FieldValueInput is one field_definition/value pair of an asset payload.
type FieldValueInput struct {
	FieldDefinition types.FlexUint64 `json:"field_definition"`
	Value           string           `json:"value"`
}

// AssetCreateInput is the create payload. field_values is required but may be
// empty.
type AssetCreateInput struct {
	Patrimonio  string                           `json:"patrimonio"`
	Category    types.FlexUint64                 `json:"category"`
	FieldValues *types.FlexList[FieldValueInput] `json:"field_values"`
}

// AssetUpdateInput is the update payload. patrimonio and category fall back to
// the stored values when omitted; field_values is required on every call and
// fully supersedes the stored value set.
type AssetUpdateInput struct {
	Patrimonio  *string                          `json:"patrimonio"`
	Category    *types.FlexUint64                `json:"category"`
	FieldValues *types.FlexList[FieldValueInput] `json:"field_values"`
}

// ListAssets returns all assets owned by the caller, each with its field
// values. When categoryID is non-nil the list is additionally filtered by
// category; a category the caller does not own silently yields an empty list.
func ListAssets(db *gorm.DB, ident types.Identity, categoryID *uint64) ([]models.Asset, error) {
	assets := []models.Asset{}

	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("FieldValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("asset_field_values.id")
		}).
		Where("owner_id = ?", ident.UserID)

	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_assets_owner"))
	}

	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	if err := query.Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	for i := range assets {
		if assets[i].FieldValues == nil {
			assets[i].FieldValues = []models.AssetFieldValue{}
		}
	}

	return assets, nil
}

// CreateAsset creates an asset and all supplied field values as one atomic
// unit: either the asset and every value are persisted, or nothing is.
func CreateAsset(db *gorm.DB, ident types.Identity, input AssetCreateInput) (*models.Asset, error) {
	if input.Patrimonio == "" {
		return nil, types.NewFieldValidationError("patrimonio", "This field is required.")
	}
	if input.FieldValues == nil {
		return nil, types.NewFieldValidationError("field_values", "This field is required.")
	}

	asset := models.Asset{
		Patrimonio:  input.Patrimonio,
		CategoryID:  input.Category.Uint64(),
		OwnerID:     ident.UserID,
		FieldValues: []models.AssetFieldValue{},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := resolveOwnedCategory(tx, ident, asset.CategoryID); err != nil {
			return err
		}
		if err := checkPatrimonioAvailable(tx, input.Patrimonio, 0); err != nil {
			return err
		}

		if err := tx.Create(&asset).Error; err != nil {
			return err
		}

		values, err := buildFieldValues(tx, asset.ID, asset.CategoryID, input.FieldValues.Slice())
		if err != nil {
			return err
		}
		if len(values) > 0 {
			if err := tx.Create(&values).Error; err != nil {
				return err
			}
			asset.FieldValues = values
		}

		return recordAuditEvent(tx, ident, models.AuditEntityAsset, models.AuditActionCreate, asset.ID, asset)
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// GetAsset retrieves an asset by id, scoped to the caller.
func GetAsset(db *gorm.DB, ident types.Identity, id uint64) (*models.Asset, error) {
	var asset models.Asset
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("FieldValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("asset_field_values.id")
		}).
		Where("id = ? AND owner_id = ?", id, ident.UserID).
		First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("Asset")
		}
		return nil, err
	}
	if asset.FieldValues == nil {
		asset.FieldValues = []models.AssetFieldValue{}
	}
	return &asset, nil
}

// UpdateAsset updates patrimonio and category only when supplied, then
// replaces the asset's entire value set with the supplied one. The whole
// operation is one transaction: after any accepted update the stored value set
// equals the request's exactly, and a failed update leaves the previous set
// intact. owner and created_at are never mutated.
func UpdateAsset(db *gorm.DB, ident types.Identity, id uint64, input AssetUpdateInput) (*models.Asset, error) {
	if input.FieldValues == nil {
		return nil, types.NewFieldValidationError("field_values", "This field is required.")
	}
	if input.Patrimonio != nil && *input.Patrimonio == "" {
		return nil, types.NewFieldValidationError("patrimonio", "This field may not be blank.")
	}

	var asset models.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ? AND owner_id = ?", id, ident.UserID).
			First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("Asset")
			}
			return err
		}

		updates := map[string]interface{}{}
		if input.Patrimonio != nil && *input.Patrimonio != asset.Patrimonio {
			if err := checkPatrimonioAvailable(tx, *input.Patrimonio, asset.ID); err != nil {
				return err
			}
			updates["patrimonio"] = *input.Patrimonio
			asset.Patrimonio = *input.Patrimonio
		}
		if input.Category != nil {
			if err := resolveOwnedCategory(tx, ident, input.Category.Uint64()); err != nil {
				return err
			}
			updates["category_id"] = input.Category.Uint64()
			asset.CategoryID = input.Category.Uint64()
		}
		if len(updates) > 0 {
			if err := tx.Model(&asset).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Full replace: the old value set is superseded, never merged.
		if err := tx.Where("asset_id = ?", asset.ID).
			Delete(&models.AssetFieldValue{}).Error; err != nil {
			return err
		}

		values, err := buildFieldValues(tx, asset.ID, asset.CategoryID, input.FieldValues.Slice())
		if err != nil {
			return err
		}
		asset.FieldValues = []models.AssetFieldValue{}
		if len(values) > 0 {
			if err := tx.Create(&values).Error; err != nil {
				return err
			}
			asset.FieldValues = values
		}

		return recordAuditEvent(tx, ident, models.AuditEntityAsset, models.AuditActionUpdate, asset.ID, asset)
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// DeleteAsset deletes an asset and its field values, scoped to the caller.
func DeleteAsset(db *gorm.DB, ident types.Identity, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ? AND owner_id = ?", id, ident.UserID).
			First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("Asset")
			}
			return err
		}

		if err := tx.Where("asset_id = ?", asset.ID).
			Delete(&models.AssetFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&asset).Error; err != nil {
			return err
		}

		return recordAuditEvent(tx, ident, models.AuditEntityAsset, models.AuditActionDelete, asset.ID, asset)
	})
}

// resolveOwnedCategory validates the target category of an asset write. A
// category that does not exist or belongs to another user does not resolve.
func resolveOwnedCategory(tx *gorm.DB, ident types.Identity, categoryID uint64) error {
	if categoryID == 0 {
		return types.NewFieldValidationError("category", "This field is required.")
	}
	var count int64
	if err := tx.Model(&models.Category{}).
		Where("id = ? AND owner_id = ?", categoryID, ident.UserID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return types.NewFieldValidationError("category", "Invalid category.")
	}
	return nil
}

// checkPatrimonioAvailable enforces system-wide patrimonio uniqueness,
// excluding the asset being updated.
func checkPatrimonioAvailable(tx *gorm.DB, patrimonio string, excludeID uint64) error {
	var count int64
	query := tx.Model(&models.Asset{}).Where("patrimonio = ?", patrimonio)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return types.NewFieldValidationError("patrimonio", "An asset with this patrimonio already exists.")
	}
	return nil
}

// buildFieldValues validates that every supplied field definition belongs to
// the asset's category and materializes the value rows. The storage layer does
// not enforce this relationship; it is checked here at the write boundary.
func buildFieldValues(tx *gorm.DB, assetID, categoryID uint64, inputs []FieldValueInput) ([]models.AssetFieldValue, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]uint64, 0, len(inputs))
	for _, in := range inputs {
		if in.FieldDefinition == 0 {
			return nil, types.NewFieldValidationError("field_values", "field_definition is required for every value.")
		}
		ids = append(ids, in.FieldDefinition.Uint64())
	}

	var fields []models.FieldDefinition
	if err := tx.Where("id IN ? AND category_id = ?", ids, categoryID).
		Find(&fields).Error; err != nil {
		return nil, err
	}
	known := make(map[uint64]struct{}, len(fields))
	for _, f := range fields {
		known[f.ID] = struct{}{}
	}

	values := make([]models.AssetFieldValue, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := known[in.FieldDefinition.Uint64()]; !ok {
			return nil, types.NewFieldValidationError("field_values",
				fmt.Sprintf("Field definition %d does not belong to the asset's category.", in.FieldDefinition.Uint64()))
		}
		values = append(values, models.AssetFieldValue{
			AssetID:           assetID,
			FieldDefinitionID: in.FieldDefinition.Uint64(),
			Value:             in.Value,
		})
	}

	return values, nil
}
