package integration_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gestok/patrimonio-api/data"
	"github.com/gestok/patrimonio-api/internal/config"
	"github.com/gestok/patrimonio-api/internal/database"
	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/services"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/tests/helpers"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the service layer with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("CategoryLifecycle", func(t *testing.T) {
		testCategoryLifecycle(t, db)
	})

	t.Run("AssetLifecycle", func(t *testing.T) {
		testAssetLifecycle(t, db)
	})

	t.Run("PatrimonioUniqueness", func(t *testing.T) {
		testPatrimonioUniqueness(t, db)
	})

	t.Run("CascadingDelete", func(t *testing.T) {
		testCascadingDelete(t, db)
	})

	t.Run("AuditTrail", func(t *testing.T) {
		testAuditTrail(t, db)
	})
}

// testCategoryLifecycle tests category create/update/retrieve against a real
// database
func testCategoryLifecycle(t *testing.T, db *gorm.DB) {
	ident := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}

	category, err := services.CreateCategory(db, ident, "int-notebooks")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	// Global uniqueness across owners
	other := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}
	if _, err := services.CreateCategory(db, other, "int-notebooks"); err == nil {
		t.Error("Expected conflict for duplicate category name")
	}

	updated, err := services.UpdateCategory(db, ident, category.ID, "int-laptops")
	if err != nil {
		t.Fatalf("Failed to update category: %v", err)
	}
	if updated.Name != "int-laptops" {
		t.Errorf("Expected name int-laptops, got %s", updated.Name)
	}

	// The other owner cannot see it
	if _, err := services.GetCategory(db, other, category.ID); err == nil {
		t.Error("Expected not found for foreign category")
	}
}

// testAssetLifecycle tests asset creation with field values and full-replace
// update semantics
func testAssetLifecycle(t *testing.T, db *gorm.DB) {
	ident := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}

	category, err := services.CreateCategory(db, ident, "int-servers")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	ram, err := services.CreateFieldDefinition(db, ident, category.ID, "RAM", models.FieldTypeText)
	if err != nil {
		t.Fatalf("Failed to create field: %v", err)
	}
	cpu, err := services.CreateFieldDefinition(db, ident, category.ID, "CPU", models.FieldTypeText)
	if err != nil {
		t.Fatalf("Failed to create field: %v", err)
	}

	createValues := types.FlexList[services.FieldValueInput]{
		{FieldDefinition: types.FlexUint64(ram.ID), Value: "64GB"},
		{FieldDefinition: types.FlexUint64(cpu.ID), Value: "EPYC"},
	}
	asset, err := services.CreateAsset(db, ident, services.AssetCreateInput{
		Patrimonio:  "INT-PAT-001",
		Category:    types.FlexUint64(category.ID),
		FieldValues: &createValues,
	})
	if err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	if len(asset.FieldValues) != 2 {
		t.Fatalf("Expected 2 field values, got %d", len(asset.FieldValues))
	}

	// Full replace on update: only RAM survives, with the new value
	updateValues := types.FlexList[services.FieldValueInput]{
		{FieldDefinition: types.FlexUint64(ram.ID), Value: "128GB"},
	}
	updated, err := services.UpdateAsset(db, ident, asset.ID, services.AssetUpdateInput{
		FieldValues: &updateValues,
	})
	if err != nil {
		t.Fatalf("Failed to update asset: %v", err)
	}
	if len(updated.FieldValues) != 1 || updated.FieldValues[0].Value != "128GB" {
		t.Errorf("Expected exact replacement with RAM=128GB, got %v", updated.FieldValues)
	}
	if updated.Patrimonio != "INT-PAT-001" {
		t.Errorf("Expected patrimonio untouched, got %s", updated.Patrimonio)
	}
}

// testPatrimonioUniqueness tests the system-wide patrimonio constraint across
// owners
func testPatrimonioUniqueness(t *testing.T, db *gorm.DB) {
	identA := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}
	identB := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}

	categoryA, err := services.CreateCategory(db, identA, "int-printers")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	categoryB, err := services.CreateCategory(db, identB, "int-scanners")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	empty := types.FlexList[services.FieldValueInput]{}
	if _, err := services.CreateAsset(db, identA, services.AssetCreateInput{
		Patrimonio:  "INT-PAT-100",
		Category:    types.FlexUint64(categoryA.ID),
		FieldValues: &empty,
	}); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	_, err = services.CreateAsset(db, identB, services.AssetCreateInput{
		Patrimonio:  "INT-PAT-100",
		Category:    types.FlexUint64(categoryB.ID),
		FieldValues: &empty,
	})
	if err == nil {
		t.Fatal("Expected validation error for duplicate patrimonio")
	}

	customErr, ok := err.(*types.CustomError)
	if !ok || customErr.Code != 400 {
		t.Errorf("Expected 400 validation error, got %v", err)
	}
}

// testCascadingDelete tests that a category delete takes fields, assets and
// values with it
func testCascadingDelete(t *testing.T, db *gorm.DB) {
	ident := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}

	category, err := services.CreateCategory(db, ident, "int-monitors")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	field, err := services.CreateFieldDefinition(db, ident, category.ID, "Inches", models.FieldTypeNumber)
	if err != nil {
		t.Fatalf("Failed to create field: %v", err)
	}

	values := types.FlexList[services.FieldValueInput]{
		{FieldDefinition: types.FlexUint64(field.ID), Value: "27"},
	}
	asset, err := services.CreateAsset(db, ident, services.AssetCreateInput{
		Patrimonio:  "INT-PAT-200",
		Category:    types.FlexUint64(category.ID),
		FieldValues: &values,
	})
	if err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	if err := services.DeleteCategory(db, ident, category.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	var fields, assets, vals int64
	db.Model(&models.FieldDefinition{}).Where("category_id = ?", category.ID).Count(&fields)
	db.Model(&models.Asset{}).Where("id = ?", asset.ID).Count(&assets)
	db.Model(&models.AssetFieldValue{}).Where("asset_id = ?", asset.ID).Count(&vals)
	if fields != 0 || assets != 0 || vals != 0 {
		t.Errorf("Expected full cascade, got fields=%d assets=%d values=%d", fields, assets, vals)
	}
}

// testAuditTrail tests audit rows against a real database, including the JSON
// payload column
func testAuditTrail(t *testing.T, db *gorm.DB) {
	ident := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}

	category, err := services.CreateCategory(db, ident, "int-tablets")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	events, err := services.ListAuditEvents(db, ident.UserID, 10)
	if err != nil {
		t.Fatalf("Failed to list audit events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 audit event, got %d", len(events))
	}
	event := events[0]
	if event.Entity != models.AuditEntityCategory || event.Action != models.AuditActionCreate {
		t.Errorf("Expected category/create, got %s/%s", event.Entity, event.Action)
	}
	if event.EntityID != category.ID {
		t.Errorf("Expected entity id %d, got %d", category.ID, event.EntityID)
	}
	if len(event.Payload.JSON) == 0 {
		t.Error("Expected non-empty JSON payload")
	}
}

// TestInitSQLAllowsServiceStartup tests that a database initialized from the
// embedded DDL lets the restricted service account come up: the startup
// auto-migration must find the schema in place and hold the rights it needs
// to reconcile any remainder
func TestInitSQLAllowsServiceStartup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "patrimonio",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	time.Sleep(5 * time.Second)

	// Schema and grants come in as root, the way the container init does
	rootDB, err := sql.Open("mysql", fmt.Sprintf("root:rootpass@tcp(%s:%s)/patrimonio", host, port.Port()))
	if err != nil {
		t.Fatalf("Failed to connect as root: %v", err)
	}
	defer rootDB.Close()

	if err := helpers.ExecuteSQL(rootDB, data.InitdbMariaDBTables); err != nil {
		t.Fatalf("Failed to run tables init sql: %v", err)
	}
	if err := helpers.ExecuteSQL(rootDB, data.InitdbMariaDBPrivileges); err != nil {
		t.Fatalf("Failed to run privileges init sql: %v", err)
	}

	// The server path: connect as the service account and auto-migrate
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "patrimonio",
		DBUser:            "patrimonio",
		DBPassword:        "patrimonio",
		DBConnectionLimit: 5,
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect as service account: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Auto-migration failed on the pre-initialized schema: %v", err)
	}

	// The grants cover the normal write path too
	ident := types.Identity{UserID: helpers.NewOwner(), Role: types.RoleUser}
	if _, err := services.CreateCategory(db, ident, "init-notebooks"); err != nil {
		t.Fatalf("Failed to create category as service account: %v", err)
	}
}

// TestHealthCheck tests the health check functionality
func TestHealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:     "mysql",
		DBHost:     host,
		DBPort:     port.Port(),
		DBDatabase: "testdb",
		DBUser:     "testuser",
		DBPassword: "testpass",
		AuthzURL:   "http://localhost:9999", // Non-existent service
	}

	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run health check
	result := services.HealthCheck(cfg, db)

	// Database should be healthy
	if result.Database != "ok" {
		t.Errorf("Expected database to be ok, got: %s", result.Database)
	}

	// Authorizer should be unreachable
	if result.Authorizer != "unreachable" {
		t.Errorf("Expected authorizer to be unreachable, got: %s", result.Authorizer)
	}

	// Overall status should be unhealthy
	if result.Status != "unhealthy" {
		t.Errorf("Expected status to be unhealthy, got: %s", result.Status)
	}
}
