// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcore/internal/models"
	"shopcore/internal/slug"
	"shopcore/internal/store"
)

// Categories groups the category hierarchy handlers.
type Categories struct {
	categoryStore *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categoryStore *store.CategoryStore) *Categories {
	return &Categories{categoryStore: categoryStore}
}

// List returns one page of active categories.
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 20, 100)

	items, pagination, err := c.categoryStore.List(page, limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"categories": items,
		"pagination": pagination,
	})
}

// Tree returns the full active category hierarchy.
func (c *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := c.categoryStore.Tree()
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, tree)
}

// BySlug returns a category with its ancestors and children.
func (c *Categories) BySlug(w http.ResponseWriter, r *http.Request) {
	cat, err := c.categoryStore.FindBySlug(chi.URLParam(r, "category"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"category":       cat,
		"hierarchy_path": cat.HierarchyPath(),
	})
}

// Children returns the direct children of a category along with the
// parent itself and its breadcrumb path.
func (c *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "category")
	if !ok {
		return
	}

	cat, err := c.categoryStore.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"children":       cat.Children,
		"parent":         cat,
		"hierarchy_path": cat.HierarchyPath(),
	})
}

// Create adds a category. Admin only. The slug is derived from the name
// when not supplied.
func (c *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(true); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	cat := &models.Category{
		Name:        *req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Slug != nil {
		cat.Slug = *req.Slug
	} else {
		cat.Slug = slug.Generate(cat.Name)
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Parent ID is not a valid UUID")
			return
		}
		cat.ParentID = &parentID
	}

	created, err := c.categoryStore.Create(cat)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// Update changes a category. Admin only. A null parent_id in the body
// promotes the category to a root.
func (c *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "category")
	if !ok {
		return
	}

	// Distinguish "parent_id": null from parent_id absent.
	var probe map[string]any
	var req categoryRequest
	if !decodeJSONInto(w, r, &req, &probe) {
		return
	}
	if errs := req.validate(false); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	update := store.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	}
	if raw, present := probe["parent_id"]; present {
		if raw == nil {
			update.SetParentNil = true
		} else {
			parentID, err := uuid.Parse(*req.ParentID)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Parent ID is not a valid UUID")
				return
			}
			update.ParentID = &parentID
		}
	}

	updated, err := c.categoryStore.Update(id, update)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// Delete removes a category and its subtree. Admin only.
func (c *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "category")
	if !ok {
		return
	}

	if err := c.categoryStore.Delete(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// pageParams reads page/limit query values with clamping.
func pageParams(r *http.Request, def, max int) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return store.ClampPage(page, limit, def, max)
}

// uuidParam parses a UUID path parameter, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}
