// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shopcore/internal/models"
)

// ProductStore manages catalog products and their images.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.short_description, p.sku,
	p.price, p.compare_price, p.cost_price, p.stock_quantity, p.low_stock_threshold,
	p.weight, p.dimensions, p.is_active, p.is_featured, p.vendor_id, p.category_id,
	p.created_at, p.updated_at`

const imageColumns = `id, product_id, image_url, alt_text, s3_key, sort_order, is_primary, created_at, updated_at`

// scanProduct scans a row into a Product struct.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.SKU,
		&p.Price, &p.ComparePrice, &p.CostPrice, &p.StockQuantity, &p.LowStockThreshold,
		&p.Weight, &p.Dimensions, &p.IsActive, &p.IsFeatured, &p.VendorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanImage(scanner interface{ Scan(...any) error }) (*models.ProductImage, error) {
	var img models.ProductImage
	err := scanner.Scan(
		&img.ID, &img.ProductID, &img.ImageURL, &img.AltText, &img.S3Key,
		&img.SortOrder, &img.IsPrimary, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint". Category accepts either a category ID or a partial
// category name.
type ProductFilter struct {
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	VendorID   *uuid.UUID
	IsFeatured *bool
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// sortColumns is the allow-list of client-selectable sort keys. Anything
// else falls back to newest-first without erroring.
var sortColumns = map[string]string{
	"price":         "p.price",
	"createdAt":     "p.created_at",
	"name":          "p.name",
	"stockQuantity": "p.stock_quantity",
	"isFeatured":    "p.is_featured",
}

// FindAll returns one page of active products matching the filter, each
// with its category name and images populated.
func (s *ProductStore) FindAll(filter ProductFilter) ([]models.Product, Pagination, error) {
	page, limit := ClampPage(filter.Page, filter.Limit, 20, 100)

	where := []string{"p.is_active = TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		if id, err := uuid.Parse(filter.Category); err == nil {
			where = append(where, "p.category_id = "+arg(id))
		} else {
			where = append(where, "c.name ILIKE "+arg("%"+filter.Category+"%"))
		}
	}
	if filter.MinPrice != nil {
		where = append(where, "p.price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, "p.price <= "+arg(*filter.MaxPrice))
	}
	if filter.InStock != nil {
		if *filter.InStock {
			where = append(where, "p.stock_quantity > 0")
		} else {
			where = append(where, "p.stock_quantity = 0")
		}
	}
	if filter.VendorID != nil {
		where = append(where, "p.vendor_id = "+arg(*filter.VendorID))
	}
	if filter.IsFeatured != nil {
		where = append(where, "p.is_featured = "+arg(*filter.IsFeatured))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s OR p.sku ILIKE %s)", pattern, pattern, pattern))
	}

	orderBy := "p.created_at DESC"
	if col, ok := sortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if strings.EqualFold(filter.SortOrder, "asc") {
			dir = "ASC"
		}
		orderBy = col + " " + dir
		if col != "p.created_at" {
			orderBy += ", p.created_at DESC"
		}
	}

	base := ` FROM products p JOIN categories c ON c.id = p.category_id WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, Pagination{}, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + `, c.name` + base +
		` ORDER BY ` + orderBy +
		` OFFSET ` + arg((page-1)*limit) + ` LIMIT ` + arg(limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.SKU,
			&p.Price, &p.ComparePrice, &p.CostPrice, &p.StockQuantity, &p.LowStockThreshold,
			&p.Weight, &p.Dimensions, &p.IsActive, &p.IsFeatured, &p.VendorID, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
		)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	if err := s.loadImages(items); err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(page, limit, total), nil
}

// loadImages batch-loads images for a product slice in one query.
func (s *ProductStore) loadImages(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i := range products {
		ids[i] = products[i].ID.String()
		index[products[i].ID] = i
	}

	rows, err := s.db.Query(`
		SELECT `+imageColumns+` FROM product_images
		WHERE product_id = ANY($1::uuid[])
		ORDER BY sort_order, created_at
	`, ids)
	if err != nil {
		return fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if i, ok := index[img.ProductID]; ok {
			products[i].Images = append(products[i].Images, *img)
		}
	}
	return rows.Err()
}

// FindByID retrieves a product by ID, active or not, with its category
// name and images.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRow(`
		SELECT `+productColumns+`, c.name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	return s.scanOne(row, "Product not found")
}

// FindBySlug retrieves an active product by slug with its category name
// and images.
func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	row := s.db.QueryRow(`
		SELECT `+productColumns+`, c.name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1 AND p.is_active = TRUE
	`, slug)
	return s.scanOne(row, fmt.Sprintf("Product with slug '%s' not found", slug))
}

func (s *ProductStore) scanOne(row *sql.Row, missing string) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.SKU,
		&p.Price, &p.ComparePrice, &p.CostPrice, &p.StockQuantity, &p.LowStockThreshold,
		&p.Weight, &p.Dimensions, &p.IsActive, &p.IsFeatured, &p.VendorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
	if err == sql.ErrNoRows {
		return nil, notFound("%s", missing)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	items := []models.Product{p}
	if err := s.loadImages(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FindFeatured returns up to limit active featured products, newest first.
func (s *ProductStore) FindFeatured(limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT `+productColumns+`, c.name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE AND p.is_featured = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	defer rows.Close()

	items, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadImages(items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByVendor returns one page of a vendor's active products.
func (s *ProductStore) FindByVendor(vendorID uuid.UUID, page, limit int) ([]models.Product, Pagination, error) {
	f := ProductFilter{VendorID: &vendorID, Page: page, Limit: limit}
	return s.FindAll(f)
}

// FindByCategory returns one page of a category's active products.
func (s *ProductStore) FindByCategory(categoryID uuid.UUID, page, limit int) ([]models.Product, Pagination, error) {
	f := ProductFilter{Category: categoryID.String(), Page: page, Limit: limit}
	return s.FindAll(f)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var items []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.SKU,
			&p.Price, &p.ComparePrice, &p.CostPrice, &p.StockQuantity, &p.LowStockThreshold,
			&p.Weight, &p.Dimensions, &p.IsActive, &p.IsFeatured, &p.VendorID, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Create inserts a new product. Fails with ErrConflict when the SKU or
// slug is taken, ErrNotFound when the category or vendor is absent, and
// ErrInvalid when the compare price does not exceed the selling price.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	if p.ComparePrice != nil && *p.ComparePrice <= p.Price {
		return nil, invalid("Compare price must be higher than selling price")
	}
	if err := s.checkSKUExists(p.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkSlugExists(p.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, p.CategoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product category: %w", err)
	}
	if !exists {
		return nil, notFound("Category with ID %s not found", p.CategoryID)
	}
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1)`, p.VendorID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product vendor: %w", err)
	}
	if !exists {
		return nil, notFound("Vendor with ID %s not found", p.VendorID)
	}

	row := s.db.QueryRow(`
		INSERT INTO products (
			name, slug, description, short_description, sku,
			price, compare_price, cost_price, stock_quantity, low_stock_threshold,
			weight, dimensions, is_featured, vendor_id, category_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.SKU,
		p.Price, p.ComparePrice, p.CostPrice, p.StockQuantity, p.LowStockThreshold,
		p.Weight, p.Dimensions, p.IsFeatured, p.VendorID, p.CategoryID,
	)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return nil, translateUnique("create product", err, "Product with this SKU or slug already exists")
	}
	return s.FindByID(id)
}

// ProductUpdate carries the optional fields an update may change. Nil
// fields are left untouched.
type ProductUpdate struct {
	Name              *string
	Slug              *string
	Description       *string
	ShortDescription  *string
	SKU               *string
	Price             *float64
	ComparePrice      *float64
	CostPrice         *float64
	StockQuantity     *int
	LowStockThreshold *int
	Weight            *float64
	Dimensions        *models.Dimensions
	IsActive          *bool
	IsFeatured        *bool
	CategoryID        *uuid.UUID
}

// Update merges the provided fields into an existing product. The
// compare-price rule is re-validated against the effective price after
// the merge.
func (s *ProductStore) Update(id uuid.UUID, update ProductUpdate) (*models.Product, error) {
	p, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if update.SKU != nil && *update.SKU != p.SKU {
		if err := s.checkSKUExists(*update.SKU, id); err != nil {
			return nil, err
		}
		p.SKU = *update.SKU
	}
	if update.Slug != nil && *update.Slug != p.Slug {
		if err := s.checkSlugExists(*update.Slug, id); err != nil {
			return nil, err
		}
		p.Slug = *update.Slug
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.ShortDescription != nil {
		p.ShortDescription = update.ShortDescription
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.ComparePrice != nil {
		p.ComparePrice = update.ComparePrice
	}
	if update.CostPrice != nil {
		p.CostPrice = update.CostPrice
	}
	if update.StockQuantity != nil {
		if *update.StockQuantity < 0 {
			return nil, invalid("Stock quantity cannot be negative")
		}
		p.StockQuantity = *update.StockQuantity
	}
	if update.LowStockThreshold != nil {
		p.LowStockThreshold = *update.LowStockThreshold
	}
	if update.Weight != nil {
		p.Weight = update.Weight
	}
	if update.Dimensions != nil {
		p.Dimensions = update.Dimensions
	}
	if update.IsActive != nil {
		p.IsActive = *update.IsActive
	}
	if update.IsFeatured != nil {
		p.IsFeatured = *update.IsFeatured
	}
	if update.CategoryID != nil {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, *update.CategoryID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check product category: %w", err)
		}
		if !exists {
			return nil, notFound("Category with ID %s not found", *update.CategoryID)
		}
		p.CategoryID = *update.CategoryID
	}

	if p.ComparePrice != nil && *p.ComparePrice <= p.Price {
		return nil, invalid("Compare price must be higher than selling price")
	}

	_, err = s.db.Exec(`
		UPDATE products SET
			name = $1, slug = $2, description = $3, short_description = $4, sku = $5,
			price = $6, compare_price = $7, cost_price = $8,
			stock_quantity = $9, low_stock_threshold = $10,
			weight = $11, dimensions = $12, is_active = $13, is_featured = $14,
			category_id = $15, updated_at = NOW()
		WHERE id = $16
	`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.SKU,
		p.Price, p.ComparePrice, p.CostPrice,
		p.StockQuantity, p.LowStockThreshold,
		p.Weight, p.Dimensions, p.IsActive, p.IsFeatured,
		p.CategoryID, id,
	)
	if err != nil {
		return nil, translateUnique("update product", err, "Product with this SKU or slug already exists")
	}
	return s.FindByID(id)
}

// UpdateStock sets the absolute stock quantity. Fails with ErrInvalid on
// negative values and ErrNotFound when the product is absent.
func (s *ProductStore) UpdateStock(id uuid.UUID, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, invalid("Stock quantity cannot be negative")
	}

	res, err := s.db.Exec(`UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`, quantity, id)
	if err != nil {
		return nil, fmt.Errorf("update product stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update product stock: %w", err)
	}
	if affected == 0 {
		return nil, notFound("Product not found")
	}
	return s.FindByID(id)
}

// Remove soft-deletes a product: it disappears from listings but stays
// in the database for order history.
func (s *ProductStore) Remove(id uuid.UUID) error {
	res, err := s.db.Exec(`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	if affected == 0 {
		return notFound("Product not found")
	}
	return nil
}

// Delete hard-deletes a product and, through the schema cascade, its
// images.
func (s *ProductStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return notFound("Product not found")
	}
	return nil
}

// LowStock returns active products at or below their low-stock
// threshold, most depleted first.
func (s *ProductStore) LowStock() ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT ` + productColumns + `, c.name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE AND p.stock_quantity <= p.low_stock_threshold
		ORDER BY p.stock_quantity ASC, p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// AddImage attaches an image to a product. The first image a product
// receives is marked primary.
func (s *ProductStore) AddImage(productID uuid.UUID, imageURL string, altText *string, s3Key *string) (*models.ProductImage, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, notFound("Product not found")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM product_images WHERE product_id = $1`, productID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count product images: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO product_images (product_id, image_url, alt_text, s3_key, sort_order, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+imageColumns,
		productID, imageURL, altText, s3Key, count, count == 0,
	)
	img, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("add product image: %w", err)
	}
	return img, nil
}

// DeleteImage removes an image row and returns it so callers can clean
// up the backing object storage.
func (s *ProductStore) DeleteImage(imageID uuid.UUID) (*models.ProductImage, error) {
	row := s.db.QueryRow(`DELETE FROM product_images WHERE id = $1 RETURNING `+imageColumns, imageID)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Product image not found")
	}
	if err != nil {
		return nil, fmt.Errorf("delete product image: %w", err)
	}
	return img, nil
}

func (s *ProductStore) checkSKUExists(sku string, excludeID uuid.UUID) error {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM products WHERE sku = $1`, sku).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check product sku: %w", err)
	}
	if id != excludeID {
		return conflict("Product with this SKU already exists")
	}
	return nil
}

func (s *ProductStore) checkSlugExists(slug string, excludeID uuid.UUID) error {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM products WHERE slug = $1`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check product slug: %w", err)
	}
	if id != excludeID {
		return conflict("Product with this slug already exists")
	}
	return nil
}
