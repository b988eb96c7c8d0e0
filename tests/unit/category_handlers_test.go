package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gestok/patrimonio-api/internal/handlers"
	"github.com/gestok/patrimonio-api/internal/middleware"
	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gestok/patrimonio-api/tests/helpers"
	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.Category{},
		&models.FieldDefinition{},
		&models.Asset{},
		&models.AssetFieldValue{},
		&models.AuditEvent{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// newTestApp builds a Fiber app with all API routes and a middleware that
// injects the given identity, standing in for the Authorizer session check.
// Errors returned from middleware render the same envelope the server uses.
func newTestApp(db *gorm.DB, ident types.Identity) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var customErr *types.CustomError
			if errors.As(err, &customErr) {
				return utils.CustomErrorResponse(c, customErr)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.IdentityKey, ident)
		return c.Next()
	})

	categoryHandler := &handlers.CategoryHandler{DB: db}
	fieldHandler := &handlers.FieldHandler{DB: db}
	assetHandler := &handlers.AssetHandler{DB: db}
	auditHandler := &handlers.AuditHandler{DB: db}

	app.Get("/api/categories", categoryHandler.ListCategories)
	app.Post("/api/categories", categoryHandler.CreateCategory)
	app.Get("/api/categories/:id", categoryHandler.GetCategory)
	app.Put("/api/categories/:id", categoryHandler.UpdateCategory)
	app.Delete("/api/categories/:id", categoryHandler.DeleteCategory)

	app.Get("/api/categories/:id/fields", fieldHandler.ListFields)
	app.Post("/api/categories/:id/fields", fieldHandler.CreateField)
	app.Get("/api/fields/:id", fieldHandler.GetField)
	app.Put("/api/fields/:id", fieldHandler.UpdateField)
	app.Delete("/api/fields/:id", fieldHandler.DeleteField)

	app.Get("/api/assets", assetHandler.ListAssets)
	app.Post("/api/assets", assetHandler.CreateAsset)
	app.Get("/api/assets/:id", assetHandler.GetAsset)
	app.Put("/api/assets/:id", assetHandler.UpdateAsset)
	app.Delete("/api/assets/:id", assetHandler.DeleteAsset)

	app.Get("/api/audit", middleware.RequireRoles(types.RoleAdmin, types.RoleEditor), auditHandler.ListAuditEvents)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (map[string]interface{}, int) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var result map[string]interface{}
	if resp.StatusCode != fiber.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}

	return result, resp.StatusCode
}

// TestCreateAndListCategories tests POST and GET /api/categories
func TestCreateAndListCategories(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})

	created, status := doJSON(t, app, "POST", "/api/categories", map[string]interface{}{
		"name": "Notebooks",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if created["name"] != "Notebooks" {
		t.Errorf("Expected name Notebooks, got %v", created["name"])
	}
	if created["owner"] != owner {
		t.Errorf("Expected owner %s, got %v", owner, created["owner"])
	}

	req := httptest.NewRequest("GET", "/api/categories", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var list []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(list))
	}
	if list[0]["field_definitions"] == nil {
		t.Error("Expected field_definitions to be present (empty array), got null")
	}
}

// TestDuplicateCategoryNameConflict tests that the name is unique across all
// owners, not per owner
func TestDuplicateCategoryNameConflict(t *testing.T) {
	db := setupTestDB(t)

	ownerA := helpers.NewOwner()
	ownerB := helpers.NewOwner()
	helpers.CreateTestCategory(t, db, ownerA, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: ownerB, Role: types.RoleUser})
	result, status := doJSON(t, app, "POST", "/api/categories", map[string]interface{}{
		"name": "Notebooks",
	})
	if status != 409 {
		t.Fatalf("Expected status 409, got %d", status)
	}
	if result["type"] != "conflict" {
		t.Errorf("Expected type conflict, got %v", result["type"])
	}
}

// TestCategoryCrossTenantIsolation tests that a category owned by another user
// is indistinguishable from a missing one
func TestCategoryCrossTenantIsolation(t *testing.T) {
	db := setupTestDB(t)

	ownerA := helpers.NewOwner()
	ownerB := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, ownerA, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: ownerB, Role: types.RoleUser})

	url := "/api/categories/" + itoa(category.ID)

	_, status := doJSON(t, app, "GET", url, nil)
	if status != 404 {
		t.Errorf("Expected status 404 on foreign GET, got %d", status)
	}

	_, status = doJSON(t, app, "PUT", url, map[string]interface{}{"name": "Stolen"})
	if status != 404 {
		t.Errorf("Expected status 404 on foreign PUT, got %d", status)
	}

	req := httptest.NewRequest("DELETE", url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 on foreign DELETE, got %d", resp.StatusCode)
	}

	// The category is untouched
	var count int64
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	if count != 1 {
		t.Error("Expected foreign category to survive")
	}
}

// TestUpdateCategoryName tests PUT /api/categories/:id
func TestUpdateCategoryName(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})
	result, status := doJSON(t, app, "PUT", "/api/categories/"+itoa(category.ID), map[string]interface{}{
		"name": "Laptops",
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if result["name"] != "Laptops" {
		t.Errorf("Expected name Laptops, got %v", result["name"])
	}
}

// TestDeleteCategoryCascades tests that deleting a category removes its field
// definitions, assets and asset values
func TestDeleteCategoryCascades(t *testing.T) {
	db := setupTestDB(t)
	owner := helpers.NewOwner()
	category := helpers.CreateTestCategory(t, db, owner, "Notebooks")
	field := helpers.CreateTestField(t, db, category.ID, "RAM", models.FieldTypeText)
	helpers.CreateTestAsset(t, db, owner, category.ID, "PAT-001", map[uint64]string{field.ID: "16GB"})

	app := newTestApp(db, types.Identity{UserID: owner, Role: types.RoleUser})

	req := httptest.NewRequest("DELETE", "/api/categories/"+itoa(category.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	var categories, fields, assets, values int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.FieldDefinition{}).Count(&fields)
	db.Model(&models.Asset{}).Count(&assets)
	db.Model(&models.AssetFieldValue{}).Count(&values)
	if categories != 0 || fields != 0 || assets != 0 || values != 0 {
		t.Errorf("Expected full cascade, got categories=%d fields=%d assets=%d values=%d",
			categories, fields, assets, values)
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
