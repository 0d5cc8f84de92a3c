package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopcore/internal/models"
)

// bcryptCost is deliberately above the library default; registration is
// not a hot path.
const bcryptCost = 12

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, is_active, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves an active user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = TRUE`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves an active user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = TRUE`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Register inserts a new user with a bcrypt-hashed password. Fails with
// ErrConflict when the email is already taken (pre-flight check) or when
// the email/phone unique constraints trip under a concurrent insert.
func (s *UserStore) Register(email, password, firstName, lastName string, phone *string, role models.Role) (*models.User, error) {
	existing, err := s.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		email, string(hash), firstName, lastName, phone, role,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, translateUnique("register user", err, "Email or phone already exists")
	}
	return u, nil
}

// UserUpdate carries the optional profile fields a user may change.
// Nil fields are left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile merges the provided fields into the user row. Fails with
// ErrNotFound when no active user has the given id and ErrConflict when
// the new phone number belongs to someone else.
func (s *UserStore) UpdateProfile(id uuid.UUID, update UserUpdate) (*models.User, error) {
	u, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("User not found")
	}

	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		if *update.Phone == "" {
			u.Phone = nil
		} else {
			u.Phone = update.Phone
		}
	}

	row := s.db.QueryRow(`
		UPDATE users SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+userColumns,
		u.FirstName, u.LastName, u.Phone, id,
	)
	updated, err := scanUser(row)
	if err != nil {
		return nil, translateUnique("update profile", err, "Phone number already in use")
	}
	return updated, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Deactivate soft-deletes a user by flipping the active flag. The row is
// kept; lookups stop returning it.
func (s *UserStore) Deactivate(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
