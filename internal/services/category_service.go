package services

import (
	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ListCategories returns all categories owned by the caller, with nested field
// definitions, in insertion order.
func ListCategories(db *gorm.DB, ident types.Identity) ([]models.Category, error) {
	categories := []models.Category{}
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("FieldDefinitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_definitions.id")
		}).
		Where("owner_id = ?", ident.UserID).
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].FieldDefinitions == nil {
			categories[i].FieldDefinitions = []models.FieldDefinition{}
		}
	}
	return categories, nil
}

// CreateCategory creates a category owned by the caller. The name must be
// unique across the whole system, not only within the owner.
func CreateCategory(db *gorm.DB, ident types.Identity, name string) (*models.Category, error) {
	if name == "" {
		return nil, types.NewFieldValidationError("name", "This field is required.")
	}

	category := models.Category{
		Name:             name,
		OwnerID:          ident.UserID,
		FieldDefinitions: []models.FieldDefinition{},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError("A category with this name already exists")
		}

		if err := tx.Create(&category).Error; err != nil {
			return err
		}

		return recordAuditEvent(tx, ident, models.AuditEntityCategory, models.AuditActionCreate, category.ID, category)
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// GetCategory retrieves a category by id, scoped to the caller. A category
// owned by someone else is indistinguishable from an absent one.
func GetCategory(db *gorm.DB, ident types.Identity, id uint64) (*models.Category, error) {
	var category models.Category
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("FieldDefinitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_definitions.id")
		}).
		Where("id = ? AND owner_id = ?", id, ident.UserID).
		First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("Category")
		}
		return nil, err
	}
	if category.FieldDefinitions == nil {
		category.FieldDefinitions = []models.FieldDefinition{}
	}
	return &category, nil
}

// UpdateCategory renames a category. Same ownership and uniqueness rules as
// create.
func UpdateCategory(db *gorm.DB, ident types.Identity, id uint64, name string) (*models.Category, error) {
	if name == "" {
		return nil, types.NewFieldValidationError("name", "This field is required.")
	}

	var category models.Category
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Preload("FieldDefinitions").
			Where("id = ? AND owner_id = ?", id, ident.UserID).
			First(&category).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("Category")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Category{}).
			Where("name = ? AND id <> ?", name, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError("A category with this name already exists")
		}

		if err := tx.Model(&category).Update("name", name).Error; err != nil {
			return err
		}
		category.Name = name

		return recordAuditEvent(tx, ident, models.AuditEntityCategory, models.AuditActionUpdate, category.ID, category)
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// DeleteCategory deletes a category and, transitively, its field definitions,
// its assets and their field values, in one transaction. Cascades are issued
// explicitly rather than left to the store so the delete is one logical
// operation on every supported dialect.
func DeleteCategory(db *gorm.DB, ident types.Identity, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ? AND owner_id = ?", id, ident.UserID).
			First(&category).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("Category")
			}
			return err
		}

		if err := tx.Where("asset_id IN (?)",
			tx.Model(&models.Asset{}).Select("id").Where("category_id = ?", id),
		).Delete(&models.AssetFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Asset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.FieldDefinition{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&category).Error; err != nil {
			return err
		}

		return recordAuditEvent(tx, ident, models.AuditEntityCategory, models.AuditActionDelete, category.ID, category)
	})
}
