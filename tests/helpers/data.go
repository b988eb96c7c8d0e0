// data.go
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

package helpers

import (
	"testing"

	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewOwner returns a fresh owner id for a simulated tenant
func NewOwner() string {
	return uuid.New().String()
}

// CreateTestCategory creates a category owned by owner
func CreateTestCategory(t *testing.T, db *gorm.DB, owner, name string) *models.Category {
	t.Helper()
	category := models.Category{
		Name:    name,
		OwnerID: owner,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return &category
}

// CreateTestField declares a field on a category
func CreateTestField(t *testing.T, db *gorm.DB, categoryID uint64, name, fieldType string) *models.FieldDefinition {
	t.Helper()
	field := models.FieldDefinition{
		CategoryID: categoryID,
		Name:       name,
		FieldType:  fieldType,
	}
	if err := db.Create(&field).Error; err != nil {
		t.Fatalf("Failed to create field definition: %v", err)
	}
	return &field
}

// CreateTestAsset creates an asset with the given field values, keyed by
// field definition id.
func CreateTestAsset(t *testing.T, db *gorm.DB, owner string, categoryID uint64, patrimonio string, values map[uint64]string) *models.Asset {
	t.Helper()
	asset := models.Asset{
		Patrimonio: patrimonio,
		CategoryID: categoryID,
		OwnerID:    owner,
	}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	for fieldID, value := range values {
		fv := models.AssetFieldValue{
			AssetID:           asset.ID,
			FieldDefinitionID: fieldID,
			Value:             value,
		}
		if err := db.Create(&fv).Error; err != nil {
			t.Fatalf("Failed to create asset field value: %v", err)
		}
	}

	return &asset
}
