// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"shopcore/internal/models"
)

// seedProduct inserts a product owned by the given vendor/category with
// cleanup registered.
func seedProduct(t *testing.T, db *sql.DB, s *ProductStore, vendor *models.Vendor, cat *models.Category, name, sku string, price float64) *models.Product {
	t.Helper()

	p, err := s.Create(&models.Product{
		Name:        name,
		Slug:        sku, // SKUs double as unique slugs in tests
		Description: "test product",
		SKU:         sku,
		Price:       price,
		VendorID:    vendor.ID,
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", sku, err)
	}
	t.Cleanup(func() { cleanProducts(t, db, sku) })
	return p
}

func TestProductComparePriceRule(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "compare-price-vendor@example.com")
	cat := testCategory(t, db, "Compare Cat", "compare-cat", nil)

	low := 50.0
	_, err := s.Create(&models.Product{
		Name: "Bad Deal", Slug: "bad-deal", Description: "d", SKU: "CMP-001",
		Price: 100, ComparePrice: &low, VendorID: vendor.ID, CategoryID: cat.ID,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for compare price below price, got %v", err)
	}

	high := 150.0
	p, err := s.Create(&models.Product{
		Name: "Good Deal", Slug: "good-deal", Description: "d", SKU: "CMP-002",
		Price: 100, ComparePrice: &high, VendorID: vendor.ID, CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanProducts(t, db, "CMP-002") })

	// Raising the price above the compare price must fail too.
	newPrice := 200.0
	_, err = s.Update(p.ID, ProductUpdate{Price: &newPrice})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid when price overtakes compare price, got %v", err)
	}
}

func TestProductDuplicateSKU(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "dup-sku-vendor@example.com")
	cat := testCategory(t, db, "Dup SKU Cat", "dup-sku-cat", nil)

	seedProduct(t, db, s, vendor, cat, "Original", "dup-sku-001", 10)

	_, err := s.Create(&models.Product{
		Name: "Copy", Slug: "dup-sku-copy", Description: "d", SKU: "dup-sku-001",
		Price: 10, VendorID: vendor.ID, CategoryID: cat.ID,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate SKU, got %v", err)
	}
}

func TestProductFilterAndPagination(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "filter-vendor@example.com")
	cat := testCategory(t, db, "Filter Widgets", "filter-widgets", nil)

	for i := 0; i < 25; i++ {
		seedProduct(t, db, s, vendor, cat, fmt.Sprintf("Widget %02d", i), fmt.Sprintf("FLT-%03d", i), float64(10+i))
	}

	// 25 items at 10 per page is 3 pages.
	_, pg, err := s.FindAll(ProductFilter{VendorID: &vendor.ID, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if pg.Total != 25 || pg.TotalPages != 3 {
		t.Errorf("expected total 25 over 3 pages, got %d over %d", pg.Total, pg.TotalPages)
	}
	if !pg.HasNext || pg.HasPrev {
		t.Error("page 1 of 3 should have next but not prev")
	}

	last, pg, err := s.FindAll(ProductFilter{VendorID: &vendor.ID, Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("FindAll page 3: %v", err)
	}
	if len(last) != 5 {
		t.Errorf("expected 5 items on last page, got %d", len(last))
	}
	if pg.HasNext || !pg.HasPrev {
		t.Error("page 3 of 3 should have prev but not next")
	}

	// Price range filter.
	items, _, err := s.FindAll(ProductFilter{VendorID: &vendor.ID, MinPrice: f64(15), MaxPrice: f64(20), Limit: 100})
	if err != nil {
		t.Fatalf("FindAll price range: %v", err)
	}
	for _, p := range items {
		if p.Price < 15 || p.Price > 20 {
			t.Errorf("product %s price %.2f outside [15, 20]", p.SKU, p.Price)
		}
	}

	// Category name partial match, case-insensitive.
	items, _, err = s.FindAll(ProductFilter{Category: "filter widg", VendorID: &vendor.ID, Limit: 100})
	if err != nil {
		t.Fatalf("FindAll category name: %v", err)
	}
	if len(items) != 25 {
		t.Errorf("expected 25 products via category name match, got %d", len(items))
	}
	if len(items) > 0 && items[0].CategoryName != "Filter Widgets" {
		t.Errorf("expected category name populated, got %q", items[0].CategoryName)
	}

	// Sort by price ascending.
	items, _, err = s.FindAll(ProductFilter{VendorID: &vendor.ID, SortBy: "price", SortOrder: "asc", Limit: 100})
	if err != nil {
		t.Fatalf("FindAll sorted: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].Price < items[i-1].Price {
			t.Fatal("expected ascending price order")
		}
	}

	// Unknown sort key silently falls back instead of erroring.
	if _, _, err := s.FindAll(ProductFilter{VendorID: &vendor.ID, SortBy: "evil; DROP TABLE products"}); err != nil {
		t.Fatalf("unknown sort key must not error: %v", err)
	}
}

func TestProductSearch(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "search-vendor@example.com")
	cat := testCategory(t, db, "Search Cat", "search-cat", nil)

	seedProduct(t, db, s, vendor, cat, "Quantum Kettle", "SRCH-001", 30)
	seedProduct(t, db, s, vendor, cat, "Plain Toaster", "SRCH-002", 20)

	items, _, err := s.FindAll(ProductFilter{Search: "quantum", VendorID: &vendor.ID, Limit: 100})
	if err != nil {
		t.Fatalf("FindAll search: %v", err)
	}
	if len(items) != 1 || items[0].SKU != "SRCH-001" {
		t.Errorf("expected name search to match only the kettle, got %d items", len(items))
	}

	// SKU is searchable too.
	items, _, err = s.FindAll(ProductFilter{Search: "srch-002", VendorID: &vendor.ID, Limit: 100})
	if err != nil {
		t.Fatalf("FindAll sku search: %v", err)
	}
	if len(items) != 1 || items[0].SKU != "SRCH-002" {
		t.Errorf("expected SKU search to match only the toaster, got %d items", len(items))
	}
}

func TestProductStockAndSoftDelete(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "stock-vendor@example.com")
	cat := testCategory(t, db, "Stock Cat", "stock-cat", nil)

	p := seedProduct(t, db, s, vendor, cat, "Stocked", "STK-001", 10)

	if _, err := s.UpdateStock(p.ID, -1); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for negative stock, got %v", err)
	}

	updated, err := s.UpdateStock(p.ID, 0)
	if err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if updated.IsInStock() {
		t.Error("expected zero quantity to read as out of stock")
	}

	// Soft delete hides the product from slug lookup but keeps the row.
	if err := s.Remove(p.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.FindBySlug(p.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected soft-deleted product hidden by slug, got %v", err)
	}
	if _, err := s.FindByID(p.ID); err != nil {
		t.Errorf("expected soft-deleted product still reachable by ID, got %v", err)
	}
}

func TestProductLowStock(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "lowstock-vendor@example.com")
	cat := testCategory(t, db, "LowStock Cat", "lowstock-cat", nil)

	p := seedProduct(t, db, s, vendor, cat, "Scarce", "LOW-001", 10)
	if _, err := s.UpdateStock(p.ID, 2); err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}

	low, err := s.LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	found := false
	for _, item := range low {
		if item.ID == p.ID {
			found = true
		}
		if !item.IsLowStock() {
			t.Errorf("product %s in low-stock report but above threshold", item.SKU)
		}
	}
	if !found {
		t.Error("expected depleted product in low-stock report")
	}
}

func TestProductImages(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	vendor := testVendor(t, db, "image-vendor@example.com")
	cat := testCategory(t, db, "Image Cat", "image-cat", nil)

	p := seedProduct(t, db, s, vendor, cat, "Pictured", "IMG-001", 10)

	first, err := s.AddImage(p.ID, "https://cdn.example.com/a.jpg", nil, nil)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if !first.IsPrimary {
		t.Error("first image should be primary")
	}

	second, err := s.AddImage(p.ID, "https://cdn.example.com/b.jpg", nil, nil)
	if err != nil {
		t.Fatalf("AddImage second: %v", err)
	}
	if second.IsPrimary {
		t.Error("second image should not be primary")
	}

	loaded, err := s.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(loaded.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(loaded.Images))
	}

	deleted, err := s.DeleteImage(second.ID)
	if err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if deleted.ImageURL != second.ImageURL {
		t.Error("expected deleted image row returned for storage cleanup")
	}
}

func f64(v float64) *float64 { return &v }
