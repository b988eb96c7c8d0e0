package services

import (
	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ListFieldDefinitions returns the field definitions of a category, scoped
// through the category's owner. A category the caller does not own yields an
// empty list, not an error, matching read-scoping by owner.
func ListFieldDefinitions(db *gorm.DB, ident types.Identity, categoryID uint64) ([]models.FieldDefinition, error) {
	fields := []models.FieldDefinition{}
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Joins("JOIN categories ON categories.id = field_definitions.category_id").
		Where("field_definitions.category_id = ? AND categories.owner_id = ?", categoryID, ident.UserID).
		Order("field_definitions.id").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// CreateFieldDefinition declares a new field on a category owned by the
// caller. field_type defaults to text when omitted. Field names are not
// required to be unique within a category.
func CreateFieldDefinition(db *gorm.DB, ident types.Identity, categoryID uint64, name, fieldType string) (*models.FieldDefinition, error) {
	if name == "" {
		return nil, types.NewFieldValidationError("name", "This field is required.")
	}
	if fieldType == "" {
		fieldType = models.FieldTypeText
	}
	if !models.ValidFieldType(fieldType) {
		return nil, types.NewFieldValidationError("field_type", "Must be one of: text, number, date.")
	}

	field := models.FieldDefinition{
		Name:      name,
		FieldType: fieldType,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ? AND owner_id = ?", categoryID, ident.UserID).
			First(&category).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("Category")
			}
			return err
		}

		field.CategoryID = category.ID
		if err := tx.Create(&field).Error; err != nil {
			return err
		}

		return recordAuditEvent(tx, ident, models.AuditEntityField, models.AuditActionCreate, field.ID, field)
	})
	if err != nil {
		return nil, err
	}

	return &field, nil
}

// GetFieldDefinition retrieves a field definition resolved only from the set
// whose category belongs to the caller.
func GetFieldDefinition(db *gorm.DB, ident types.Identity, fieldID uint64) (*models.FieldDefinition, error) {
	return findOwnedFieldDefinition(db, ident, fieldID)
}

// UpdateFieldDefinition renames and/or retypes a field definition, with the
// same ownership scoping as retrieve.
func UpdateFieldDefinition(db *gorm.DB, ident types.Identity, fieldID uint64, name, fieldType string) (*models.FieldDefinition, error) {
	if name == "" {
		return nil, types.NewFieldValidationError("name", "This field is required.")
	}
	if fieldType == "" {
		fieldType = models.FieldTypeText
	}
	if !models.ValidFieldType(fieldType) {
		return nil, types.NewFieldValidationError("field_type", "Must be one of: text, number, date.")
	}

	var field *models.FieldDefinition
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		field, err = findOwnedFieldDefinition(tx, ident, fieldID)
		if err != nil {
			return err
		}

		if err := tx.Model(field).Updates(map[string]interface{}{
			"name":       name,
			"field_type": fieldType,
		}).Error; err != nil {
			return err
		}
		field.Name = name
		field.FieldType = fieldType

		return recordAuditEvent(tx, ident, models.AuditEntityField, models.AuditActionUpdate, field.ID, field)
	})
	if err != nil {
		return nil, err
	}

	return field, nil
}

// DeleteFieldDefinition deletes a field definition and the asset field values
// referencing it, scoped through the category's owner.
func DeleteFieldDefinition(db *gorm.DB, ident types.Identity, fieldID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		field, err := findOwnedFieldDefinition(tx, ident, fieldID)
		if err != nil {
			return err
		}

		if err := tx.Where("field_definition_id = ?", field.ID).
			Delete(&models.AssetFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(field).Error; err != nil {
			return err
		}

		return recordAuditEvent(tx, ident, models.AuditEntityField, models.AuditActionDelete, field.ID, field)
	})
}

// findOwnedFieldDefinition resolves a field definition through its category's
// owner. A field on another user's category is reported as not found.
func findOwnedFieldDefinition(db *gorm.DB, ident types.Identity, fieldID uint64) (*models.FieldDefinition, error) {
	var field models.FieldDefinition
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Joins("JOIN categories ON categories.id = field_definitions.category_id").
		Where("field_definitions.id = ? AND categories.owner_id = ?", fieldID, ident.UserID).
		First(&field).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("Field definition")
		}
		return nil, err
	}
	return &field, nil
}
