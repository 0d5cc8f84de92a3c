// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"shopcore/internal/models"
)

func TestCategoryTreeGrouping(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	root := testCategory(t, db, "Tree Root", "tree-root", nil)
	childA := testCategory(t, db, "Tree Child A", "tree-child-a", &root.ID)
	childB := testCategory(t, db, "Tree Child B", "tree-child-b", &root.ID)
	grand := testCategory(t, db, "Tree Grandchild", "tree-grandchild", &childA.ID)

	tree, err := s.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	var rootNode *models.Category
	for i := range tree {
		switch tree[i].ID {
		case root.ID:
			rootNode = &tree[i]
		case childA.ID, childB.ID, grand.ID:
			// Nested categories must not also appear as roots.
			t.Errorf("category %s duplicated at root level", tree[i].Slug)
		}
	}
	if rootNode == nil {
		t.Fatal("expected root category in tree")
	}
	if len(rootNode.Children) != 2 {
		t.Fatalf("expected 2 children under root, got %d", len(rootNode.Children))
	}
	if rootNode.Children[0].ID != childA.ID || rootNode.Children[1].ID != childB.ID {
		t.Error("expected children ordered by sort_order then name")
	}
	if len(rootNode.Children[0].Children) != 1 || rootNode.Children[0].Children[0].ID != grand.ID {
		t.Error("expected grandchild nested under child A")
	}
}

func TestCategoryHierarchyPath(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	root := testCategory(t, db, "Path Root", "path-root", nil)
	child := testCategory(t, db, "Path Child", "path-child", &root.ID)
	grand := testCategory(t, db, "Path Grandchild", "path-grandchild", &child.ID)

	loaded, err := s.FindByID(grand.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	want := "Path Root > Path Child > Path Grandchild"
	if got := loaded.HierarchyPath(); got != want {
		t.Errorf("expected hierarchy path %q, got %q", want, got)
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	testCategory(t, db, "Unique Cat", "unique-cat", nil)
	t.Cleanup(func() { cleanCategories(t, db, "unique-cat-2") })

	_, err := s.Create(&models.Category{Name: "Unique Cat", Slug: "unique-cat-2"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestCategoryCreateMissingParent(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	missing := uuid.New()
	_, err := s.Create(&models.Category{Name: "Orphan Cat", Slug: "orphan-cat", ParentID: &missing})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestCategoryCycleRejected(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	root := testCategory(t, db, "Cycle Root", "cycle-root", nil)
	child := testCategory(t, db, "Cycle Child", "cycle-child", &root.ID)

	// Moving the root under its own child must fail.
	_, err := s.Update(root.ID, CategoryUpdate{ParentID: &child.ID})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for cycle, got %v", err)
	}

	// A category cannot be its own parent.
	_, err = s.Update(root.ID, CategoryUpdate{ParentID: &root.ID})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for self-parent, got %v", err)
	}
}

func TestCategoryUpdateMerge(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	c := testCategory(t, db, "Merge Cat", "merge-cat", nil)
	t.Cleanup(func() { cleanCategories(t, db, "merge-cat-renamed") })

	name := "Merge Cat Renamed"
	slug := "merge-cat-renamed"
	order := 5
	updated, err := s.Update(c.ID, CategoryUpdate{Name: &name, Slug: &slug, SortOrder: &order})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != name || updated.Slug != slug || updated.SortOrder != 5 {
		t.Errorf("expected merged fields, got %+v", updated)
	}
	if !updated.IsActive {
		t.Error("untouched fields must survive the merge")
	}
}

func TestCategoryDeleteCascadesSubtree(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	root := testCategory(t, db, "Del Root", "del-root", nil)
	child := testCategory(t, db, "Del Child", "del-child", &root.ID)

	if err := s.Delete(root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.FindByID(child.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected child to be cascade-deleted, got %v", err)
	}
}

func TestCategoryDeleteMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	err := s.Delete(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryFindBySlugInactive(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	c := testCategory(t, db, "Hidden Cat", "hidden-cat", nil)

	inactive := false
	if _, err := s.Update(c.ID, CategoryUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := s.FindBySlug("hidden-cat"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected inactive category hidden from slug lookup, got %v", err)
	}
}
