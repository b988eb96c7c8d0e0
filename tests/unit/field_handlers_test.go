package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/tests/helpers"
)

// TestCreateFieldDefaultsToText tests that an omitted field_type becomes text
func TestCreateFieldDefaultsToText(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})
	result, status := doJSON(t, app, "POST", "/api/categories/"+itoa(category.ID)+"/fields", map[string]interface{}{
		"name": "RAM",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if result["field_type"] != "text" {
		t.Errorf("Expected field_type text, got %v", result["field_type"])
	}
}

// TestCreateFieldInvalidType tests rejection of an unknown field_type
func TestCreateFieldInvalidType(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})
	result, status := doJSON(t, app, "POST", "/api/categories/"+itoa(category.ID)+"/fields", map[string]interface{}{
		"name":       "RAM",
		"field_type": "boolean",
	})
	if status != 400 {
		t.Fatalf("Expected status 400, got %d", status)
	}

	fields, ok := result["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected fields map in response, got %v", result["fields"])
	}
	if fields["field_type"] == nil {
		t.Error("Expected field_type entry in fields map")
	}
}

// TestDuplicateFieldNamesAllowed tests that names are not unique within a
// category
func TestDuplicateFieldNamesAllowed(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})
	for i := 0; i < 2; i++ {
		_, status := doJSON(t, app, "POST", "/api/categories/"+itoa(category.ID)+"/fields", map[string]interface{}{
			"name": "RAM",
		})
		if status != 201 {
			t.Fatalf("Expected status 201 on attempt %d, got %d", i+1, status)
		}
	}
}

// TestListFieldsForeignCategoryEmpty tests that listing fields of a category
// owned by someone else yields an empty list, not an error
func TestListFieldsForeignCategoryEmpty(t *testing.T) {
	db := setupTestDB(t)

	ownerA := helpers.NewOwner()
	ownerB := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, ownerA, "Notebooks")
	helpers.CreateTestField(t, db, category.ID, "RAM", models.FieldTypeText)

	app := newTestApp(db, types.Identity{UserID: ownerB, Role: types.RoleUser})
	req := httptest.NewRequest("GET", "/api/categories/"+itoa(category.ID)+"/fields", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var list []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list for foreign category, got %d fields", len(list))
	}
}

// TestCreateFieldForeignCategory tests that declaring a field on a foreign
// category reads as a missing category
func TestCreateFieldForeignCategory(t *testing.T) {
	db := setupTestDB(t)

	ownerA := helpers.NewOwner()
	ownerB := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, ownerA, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: ownerB, Role: types.RoleUser})
	_, status := doJSON(t, app, "POST", "/api/categories/"+itoa(category.ID)+"/fields", map[string]interface{}{
		"name": "RAM",
	})
	if status != 404 {
		t.Errorf("Expected status 404, got %d", status)
	}
}

// TestFieldCrossTenantIsolation tests retrieve/update/delete scoping through
// the owning category
func TestFieldCrossTenantIsolation(t *testing.T) {
	db := setupTestDB(t)

	ownerA := helpers.NewOwner()
	ownerB := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, ownerA, "Notebooks")
	field := helpers.CreateTestField(t, db, category.ID, "RAM", models.FieldTypeText)

	app := newTestApp(db, types.Identity{UserID: ownerB, Role: types.RoleUser})

	_, status := doJSON(t, app, "GET", "/api/fields/"+itoa(field.ID), nil)
	if status != 404 {
		t.Errorf("Expected status 404 on foreign GET, got %d", status)
	}

	_, status = doJSON(t, app, "PUT", "/api/fields/"+itoa(field.ID), map[string]interface{}{
		"name": "Memory",
	})
	if status != 404 {
		t.Errorf("Expected status 404 on foreign PUT, got %d", status)
	}
}

// TestDeleteFieldRemovesValues tests that deleting a field definition removes
// the values referencing it
func TestDeleteFieldRemovesValues(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")
	field := helpers.CreateTestField(t, db, category.ID, "RAM", models.FieldTypeText)
	asset := helpers.CreateTestAsset(t, db, owner, category.ID, "PAT-001", map[uint64]string{field.ID: "16GB"})

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})
	req := httptest.NewRequest("DELETE", "/api/fields/"+itoa(field.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	var values int64
	db.Model(&models.AssetFieldValue{}).Where("asset_id = ?", asset.ID).Count(&values)
	if values != 0 {
		t.Errorf("Expected 0 values after field delete, got %d", values)
	}

	// The asset itself survives
	var assets int64
	db.Model(&models.Asset{}).Where("id = ?", asset.ID).Count(&assets)
	if assets != 1 {
		t.Error("Expected asset to survive field delete")
	}
}
