// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category represents one node in the self-referencing product category
// hierarchy. The parent chain is a tree by construction: re-parenting a
// category onto itself or one of its descendants is rejected at the
// store layer.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Parent   *Category  `json:"parent,omitempty"`
	Children []Category `json:"children,omitempty"`
}

// IsRoot returns true for top-level categories.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsLeaf returns true when the category has no children loaded.
func (c *Category) IsLeaf() bool {
	return len(c.Children) == 0
}

// HierarchyPath returns the breadcrumb from the root to this category,
// e.g. "Electronics > Laptops > Gaming". It walks the in-memory Parent
// chain and performs no queries; the chain must already be populated.
func (c *Category) HierarchyPath() string {
	path := []string{c.Name}
	for cur := c.Parent; cur != nil; cur = cur.Parent {
		path = append([]string{cur.Name}, path...)
	}
	return strings.Join(path, " > ")
}
