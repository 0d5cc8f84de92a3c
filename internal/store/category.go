// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shopcore/internal/models"
)

// CategoryStore manages the self-referencing category hierarchy.
//
// Deleting a category cascade-deletes its whole subtree (schema-level
// ON DELETE CASCADE). That is intentional: children are never
// re-parented when their ancestor goes away.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, image_url, parent_id, is_active, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
		&c.ParentID, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns one page of active categories ordered by (sort_order, name).
func (s *CategoryStore) List(page, limit int) ([]models.Category, Pagination, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE is_active = TRUE`).Scan(&total); err != nil {
		return nil, Pagination{}, fmt.Errorf("count categories: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order, name
		OFFSET $1 LIMIT $2
	`, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, NewPagination(page, limit, total), rows.Err()
}

// Tree returns active categories as a nested tree of roots. The whole
// set is loaded in one query and grouped in memory; each level is
// ordered by (sort_order, name).
func (s *CategoryStore) Tree() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + ` FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}
	defer rows.Close()

	var flat []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		flat = append(flat, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildTree(flat, nil), nil
}

// buildTree recursively builds a tree from a flat, pre-sorted list.
// Every non-root category appears exactly once, under its parent.
func buildTree(flat []models.Category, parentID *uuid.UUID) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Children = buildTree(flat, &c.ID)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category with its parent chain and children
// populated. Fails with ErrNotFound if absent.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Category with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	if err := s.loadRelations(c); err != nil {
		return nil, err
	}
	return c, nil
}

// FindBySlug retrieves an active category by slug with its parent chain
// and children populated. Fails with ErrNotFound if absent or inactive.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND is_active = TRUE`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Category with slug '%s' not found", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}

	if err := s.loadRelations(c); err != nil {
		return nil, err
	}
	return c, nil
}

// loadRelations populates the full ancestor chain (for breadcrumbs) and
// the direct children (sorted like the tree).
func (s *CategoryStore) loadRelations(c *models.Category) error {
	// Walk the parent chain upward. Terminates because the hierarchy is
	// a tree by construction.
	cur := c
	for cur.ParentID != nil {
		row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, *cur.ParentID)
		parent, err := scanCategory(row)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return fmt.Errorf("load category parent: %w", err)
		}
		cur.Parent = parent
		cur = parent
	}

	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_id = $1 AND is_active = TRUE
		ORDER BY sort_order, name
	`, c.ID)
	if err != nil {
		return fmt.Errorf("load category children: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		child, err := scanCategory(rows)
		if err != nil {
			return fmt.Errorf("scan category child: %w", err)
		}
		c.Children = append(c.Children, *child)
	}
	return rows.Err()
}

// Create inserts a new category. Fails with ErrConflict when the name or
// slug is taken, and ErrNotFound when parentID refers to no category.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	if err := s.checkNameExists(c.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkSlugExists(c.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if c.ParentID != nil {
		var exists bool
		err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, *c.ParentID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check parent category: %w", err)
		}
		if !exists {
			return nil, notFound("Parent category with ID %s not found", *c.ParentID)
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, image_url, parent_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.SortOrder,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, translateUnique("create category", err, "Category name or slug already exists")
	}
	return created, nil
}

// CategoryUpdate carries the optional fields an update may change.
// Nil fields are left untouched. SetParentNil promotes the category to a
// root (ParentID alone cannot express "clear the parent").
type CategoryUpdate struct {
	Name         *string
	Slug         *string
	Description  *string
	ImageURL     *string
	ParentID     *uuid.UUID
	SetParentNil bool
	SortOrder    *int
	IsActive     *bool
}

// Update merges the provided fields into an existing category. Fails with
// ErrNotFound if the category (or a new parent) is absent, ErrConflict on
// name/slug collision with another row, and ErrInvalid when the new
// parent would make the hierarchy cyclic.
func (s *CategoryStore) Update(id uuid.UUID, update CategoryUpdate) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Category with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	if update.Name != nil && *update.Name != c.Name {
		if err := s.checkNameExists(*update.Name, id); err != nil {
			return nil, err
		}
		c.Name = *update.Name
	}
	if update.Slug != nil && *update.Slug != c.Slug {
		if err := s.checkSlugExists(*update.Slug, id); err != nil {
			return nil, err
		}
		c.Slug = *update.Slug
	}
	if update.Description != nil {
		c.Description = update.Description
	}
	if update.ImageURL != nil {
		c.ImageURL = update.ImageURL
	}
	if update.SortOrder != nil {
		c.SortOrder = *update.SortOrder
	}
	if update.IsActive != nil {
		c.IsActive = *update.IsActive
	}

	switch {
	case update.SetParentNil:
		c.ParentID = nil
	case update.ParentID != nil:
		if err := s.checkReparent(id, *update.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = update.ParentID
	}

	row = s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, image_url = $4,
			parent_id = $5, sort_order = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.SortOrder, c.IsActive, id,
	)
	updated, err := scanCategory(row)
	if err != nil {
		return nil, translateUnique("update category", err, "Category name or slug already exists")
	}
	return updated, nil
}

// checkReparent validates that newParent exists and is not the category
// itself or one of its descendants. Walking up from the prospective
// parent must not pass through the category being moved.
func (s *CategoryStore) checkReparent(id, newParent uuid.UUID) error {
	if newParent == id {
		return invalid("Category cannot be its own parent")
	}

	cur := newParent
	for {
		var parentID *uuid.UUID
		err := s.db.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, cur).Scan(&parentID)
		if err == sql.ErrNoRows {
			if cur == newParent {
				return notFound("Parent category with ID %s not found", newParent)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("check category parent chain: %w", err)
		}
		if parentID == nil {
			return nil
		}
		if *parentID == id {
			return invalid("Cannot move category under its own descendant")
		}
		cur = *parentID
	}
}

// Delete removes a category and, through the schema cascade, its entire
// subtree. Fails with ErrNotFound if absent and ErrConflict when a
// category in the subtree still owns products (RESTRICT foreign key).
func (s *CategoryStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return conflict("Category still has products and cannot be deleted")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return notFound("Category with ID %s not found", id)
	}
	return nil
}

func (s *CategoryStore) checkNameExists(name string, excludeID uuid.UUID) error {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name = $1`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if id != excludeID {
		return conflict("Category with name '%s' already exists", name)
	}
	return nil
}

func (s *CategoryStore) checkSlugExists(slug string, excludeID uuid.UUID) error {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM categories WHERE slug = $1`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check category slug: %w", err)
	}
	if id != excludeID {
		return conflict("Category with slug '%s' already exists", slug)
	}
	return nil
}
