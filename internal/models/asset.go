package models

import (
	"time"
)

// Asset is a tracked item belonging to a category, identified by a unique
// patrimonio tag. Patrimonio is unique across all owners. CreatedAt is set once
// at creation and never updated.
type Asset struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Patrimonio  string            `gorm:"size:100;not null;uniqueIndex" json:"patrimonio"`
	CategoryID  uint64            `gorm:"not null;index" json:"category"`
	OwnerID     string            `gorm:"type:char(36);not null;index:idx_assets_owner" json:"owner"`
	CreatedAt   time.Time         `gorm:"<-:create" json:"created_at"`
	UpdatedAt   time.Time         `json:"-"`
	FieldValues []AssetFieldValue `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"field_values"`
}

// AssetFieldValue is the concrete value of one field definition for one asset.
// The value is opaque text; it is never validated against the declared
// field_type. The application guarantees at write time that the field
// definition belongs to the asset's category.
type AssetFieldValue struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	AssetID           uint64 `gorm:"not null;index" json:"-"`
	FieldDefinitionID uint64 `gorm:"not null;index" json:"field_definition"`
	Value             string `gorm:"type:text" json:"value"`
}

// TableName overrides the table name for Asset
func (Asset) TableName() string {
	return "assets"
}

// TableName overrides the table name for AssetFieldValue
func (AssetFieldValue) TableName() string {
	return "asset_field_values"
}
