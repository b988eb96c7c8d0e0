package models

import (
	"time"
)

// Field types accepted for a FieldDefinition.
const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
)

// ValidFieldType reports whether t is an accepted field type.
func ValidFieldType(t string) bool {
	return t == FieldTypeText || t == FieldTypeNumber || t == FieldTypeDate
}

// Category is an owner-defined grouping of assets with a custom attribute schema.
// The name is unique across the whole system, not per owner.
type Category struct {
	ID               uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string            `gorm:"size:100;not null;uniqueIndex" json:"name"`
	OwnerID          string            `gorm:"type:char(36);not null;index:idx_categories_owner" json:"owner"`
	CreatedAt        time.Time         `json:"-"`
	UpdatedAt        time.Time         `json:"-"`
	FieldDefinitions []FieldDefinition `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"field_definitions"`
}

// FieldDefinition is a named, typed attribute declared once per category.
// Names are not unique within a category.
type FieldDefinition struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID uint64    `gorm:"not null;index" json:"-"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	FieldType  string    `gorm:"size:10;not null;default:text" json:"field_type"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for FieldDefinition
func (FieldDefinition) TableName() string {
	return "field_definitions"
}
