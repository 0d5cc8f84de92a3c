// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcore/internal/models"
	"shopcore/internal/slug"
	"shopcore/internal/storage"
	"shopcore/internal/store"
)

// maxImageBytes caps product image uploads at 10 MB.
const maxImageBytes = 10 << 20

// allowedImageTypes are the content types accepted for product images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Products groups the catalog handlers. storage may be nil, in which
// case the image endpoints report the feature unavailable.
type Products struct {
	productStore *store.ProductStore
	storage      *storage.Client
}

// NewProducts creates a new Products handler group.
func NewProducts(productStore *store.ProductStore, storageClient *storage.Client) *Products {
	return &Products{productStore: productStore, storage: storageClient}
}

// List returns one filtered, sorted page of active products.
func (p *Products) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	items, pagination, err := p.productStore.FindAll(filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"products":   items,
		"pagination": pagination,
	})
}

// parseFilter reads the catalog query parameters. Unknown sort keys are
// tolerated; malformed UUIDs and numbers are not.
func parseFilter(w http.ResponseWriter, r *http.Request) (store.ProductFilter, bool) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "minPrice must be a number")
			return filter, false
		}
		filter.MinPrice = &f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "maxPrice must be a number")
			return filter, false
		}
		filter.MaxPrice = &f
	}
	if v := q.Get("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "inStock must be true or false")
			return filter, false
		}
		filter.InStock = &b
	}
	if v := q.Get("isFeatured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "isFeatured must be true or false")
			return filter, false
		}
		filter.IsFeatured = &b
	}
	if v := q.Get("vendorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "vendorId is not a valid UUID")
			return filter, false
		}
		filter.VendorID = &id
	}
	return filter, true
}

// Featured returns the newest featured products.
func (p *Products) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := p.productStore.FindFeatured(limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// ByID returns a product by ID, active or not.
func (p *Products) ByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	product, err := p.productStore.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// BySlug returns an active product by slug.
func (p *Products) BySlug(w http.ResponseWriter, r *http.Request) {
	product, err := p.productStore.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// ByVendor returns one page of a vendor's products.
func (p *Products) ByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := uuidParam(w, r, "vendorId")
	if !ok {
		return
	}
	page, limit := pageParams(r, 20, 100)

	items, pagination, err := p.productStore.FindByVendor(vendorID, page, limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"products":   items,
		"pagination": pagination,
	})
}

// ByCategory returns one page of a category's products.
func (p *Products) ByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := uuidParam(w, r, "categoryId")
	if !ok {
		return
	}
	page, limit := pageParams(r, 20, 100)

	items, pagination, err := p.productStore.FindByCategory(categoryID, page, limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"products":   items,
		"pagination": pagination,
	})
}

// Create adds a product. Admin only. The slug is derived from the name
// when not supplied.
func (p *Products) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(true); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	vendorID, err := uuid.Parse(*req.VendorID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Vendor ID is not a valid UUID")
		return
	}
	categoryID, err := uuid.Parse(*req.CategoryID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Category ID is not a valid UUID")
		return
	}

	product := &models.Product{
		Name:             *req.Name,
		Description:      *req.Description,
		ShortDescription: req.ShortDescription,
		SKU:              *req.SKU,
		Price:            *req.Price,
		ComparePrice:     req.ComparePrice,
		CostPrice:        req.CostPrice,
		Weight:           req.Weight,
		Dimensions:       req.Dimensions,
		VendorID:         vendorID,
		CategoryID:       categoryID,
	}
	if req.Slug != nil {
		product.Slug = *req.Slug
	} else {
		product.Slug = slug.Generate(product.Name)
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	} else {
		product.LowStockThreshold = 10
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	created, err := p.productStore.Create(product)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// Update changes a product. Admin only.
func (p *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(false); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	update := store.ProductUpdate{
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		SKU:               req.SKU,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		CostPrice:         req.CostPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		IsActive:          req.IsActive,
		IsFeatured:        req.IsFeatured,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Category ID is not a valid UUID")
			return
		}
		update.CategoryID = &categoryID
	}

	updated, err := p.productStore.Update(id, update)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

type stockRequest struct {
	StockQuantity int `json:"stock_quantity"`
}

// UpdateStock sets the absolute stock quantity. Admin only.
func (p *Products) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req stockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := p.productStore.UpdateStock(id, req.StockQuantity)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// Remove soft-deletes a product. Admin only.
func (p *Products) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := p.productStore.Remove(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Product removed from catalog"})
}

// Delete hard-deletes a product and its images. Admin only.
func (p *Products) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := p.productStore.Delete(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Product permanently deleted"})
}

// LowStock returns products at or below their restocking threshold.
// Admin only.
func (p *Products) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := p.productStore.LowStock()
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// UploadImage accepts a multipart "image" file, stores it in object
// storage and attaches it to the product. Admin only.
func (p *Products) UploadImage(w http.ResponseWriter, r *http.Request) {
	if p.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "An image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "Image must be JPEG, PNG, WebP or GIF")
		return
	}

	key := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), ext)
	if err := p.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("image upload failed", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "Image upload failed")
		return
	}

	altText := strings.TrimSpace(r.FormValue("alt_text"))
	var alt *string
	if altText != "" {
		alt = &altText
	}

	img, err := p.productStore.AddImage(id, p.storage.FileURL(key), alt, &key)
	if err != nil {
		// The object is orphaned if the row insert fails; clean it up.
		if delErr := p.storage.Delete(r.Context(), key); delErr != nil {
			slog.Error("orphaned image cleanup failed", "key", key, "error", delErr)
		}
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusCreated, img)
}

// DeleteImage removes an image row and its stored object. Admin only.
func (p *Products) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, ok := uuidParam(w, r, "imageID")
	if !ok {
		return
	}

	img, err := p.productStore.DeleteImage(imageID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if p.storage != nil && img.S3Key != nil {
		if err := p.storage.Delete(r.Context(), *img.S3Key); err != nil {
			slog.Error("image object delete failed", "key", *img.S3Key, "error", err)
		}
	}
	respond(w, http.StatusOK, map[string]string{"message": "Image deleted"})
}
