// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"shopcore/internal/database"
	"shopcore/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "shopcore")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "shopcore")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Vendor profiles and products
// of those users go with them through the schema cascades. Call in
// t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanProducts removes test products by SKU. Call in t.Cleanup().
func cleanProducts(t *testing.T, db *sql.DB, skus ...string) {
	t.Helper()
	for _, sku := range skus {
		db.Exec("DELETE FROM products WHERE sku = $1", sku)
	}
}

// testVendor registers a throwaway user, files a vendor application and
// approves it, returning the approved vendor. Cleanup of the user
// cascades to the vendor and its products.
func testVendor(t *testing.T, db *sql.DB, email string) *models.Vendor {
	t.Helper()

	users := NewUserStore(db)
	user, err := users.Register(email, "Str0ng!pass", "Test", "Vendor", nil, models.RoleVendor)
	if err != nil {
		t.Fatalf("register vendor user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })

	vendors := NewVendorStore(db)
	v, err := vendors.Submit(&models.Vendor{
		UserID:       user.ID,
		BusinessName: "Test Vendor " + uuid.NewString()[:8],
		BusinessType: models.BusinessLLC,
		BusinessAddress: models.Address{
			Street: "1 Main St", City: "Springfield", State: "IL",
			ZipCode: "62701", Country: "US",
		},
		ContactEmail: email,
		ContactPhone: "+15550100",
		PaymentInfo: models.PaymentInfo{
			AccountType: "checking", AccountNumber: "000123", AccountHolder: "Test Vendor",
		},
	})
	if err != nil {
		t.Fatalf("submit vendor application: %v", err)
	}

	approved, err := vendors.Approve(v.ID, nil)
	if err != nil {
		t.Fatalf("approve vendor: %v", err)
	}
	return approved
}

// testCategory creates a throwaway category and registers its cleanup.
func testCategory(t *testing.T, db *sql.DB, name, slug string, parentID *uuid.UUID) *models.Category {
	t.Helper()

	cats := NewCategoryStore(db)
	c, err := cats.Create(&models.Category{Name: name, Slug: slug, ParentID: parentID})
	if err != nil {
		t.Fatalf("create category %s: %v", slug, err)
	}
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	return c
}
