package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a small category tree. Skipped when any user exists.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@shopcore.local", string(hash), "Admin", "User", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A minimal category tree so the catalog is browsable out of the box.
	var electronicsID string
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order)
		VALUES ('Electronics', 'electronics', 'Devices and accessories', 0)
		RETURNING id
	`).Scan(&electronicsID)
	if err != nil {
		return fmt.Errorf("seed insert root category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, parent_id, sort_order)
		VALUES
			('Laptops', 'laptops', $1, 0),
			('Phones', 'phones', $1, 1)
	`, electronicsID)
	if err != nil {
		return fmt.Errorf("seed insert child categories: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@shopcore.local",
		"password", "Admin123!",
	)

	return nil
}
