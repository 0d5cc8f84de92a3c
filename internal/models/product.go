// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dimensions holds optional physical measurements, stored as a JSONB column.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Value implements driver.Valuer for JSONB storage.
func (d Dimensions) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (d *Dimensions) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		return nil
	}
	return fmt.Errorf("dimensions scan: unsupported type %T", src)
}

// Product represents a catalog item owned by exactly one vendor and
// belonging to exactly one category.
type Product struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Slug              string      `json:"slug"`
	Description       string      `json:"description"`
	ShortDescription  *string     `json:"short_description,omitempty"`
	SKU               string      `json:"sku"`
	Price             float64     `json:"price"`
	ComparePrice      *float64    `json:"compare_price,omitempty"`
	CostPrice         *float64    `json:"cost_price,omitempty"`
	StockQuantity     int         `json:"stock_quantity"`
	LowStockThreshold int         `json:"low_stock_threshold"`
	Weight            *float64    `json:"weight,omitempty"`
	Dimensions        *Dimensions `json:"dimensions,omitempty"`
	IsActive          bool        `json:"is_active"`
	IsFeatured        bool        `json:"is_featured"`
	VendorID          uuid.UUID   `json:"vendor_id"`
	CategoryID        uuid.UUID   `json:"category_id"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	// Virtual fields populated by store methods.
	CategoryName string         `json:"category_name,omitempty"`
	Images       []ProductImage `json:"images,omitempty"`
}

// IsInStock returns true when at least one unit is available.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// IsLowStock returns true when inventory has fallen to or below the
// restocking threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// ProductImage is one ordered image attached to a product. At most one
// image per product is marked primary.
type ProductImage struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	AltText   *string   `json:"alt_text,omitempty"`
	S3Key     *string   `json:"-"` // Internal storage key, not exposed
	SortOrder int       `json:"sort_order"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
