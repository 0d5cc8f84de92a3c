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

// VendorStatus is the lifecycle state of a vendor application.
// Transitions: pending → approved ⇄ suspended. A rejected application is
// deleted outright, so there is no "rejected" state and no way back to
// pending.
type VendorStatus string

const (
	VendorPending   VendorStatus = "pending"
	VendorApproved  VendorStatus = "approved"
	VendorSuspended VendorStatus = "suspended"
)

// ValidVendorStatus reports whether s is one of the known statuses.
func ValidVendorStatus(s string) bool {
	switch VendorStatus(s) {
	case VendorPending, VendorApproved, VendorSuspended:
		return true
	}
	return false
}

// BusinessType classifies the legal form of a vendor's business.
type BusinessType string

const (
	BusinessIndividual         BusinessType = "individual"
	BusinessCorporation        BusinessType = "corporation"
	BusinessLLC                BusinessType = "llc"
	BusinessPartnership        BusinessType = "partnership"
	BusinessSoleProprietorship BusinessType = "sole_proprietorship"
)

// ValidBusinessType reports whether s is one of the known business types.
func ValidBusinessType(s string) bool {
	switch BusinessType(s) {
	case BusinessIndividual, BusinessCorporation, BusinessLLC,
		BusinessPartnership, BusinessSoleProprietorship:
		return true
	}
	return false
}

// Address is a vendor's structured business address, stored as JSONB.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Value implements driver.Valuer for JSONB storage.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		return nil
	}
	return fmt.Errorf("address scan: unsupported type %T", src)
}

// PaymentInfo holds a vendor's payout account details, stored as JSONB.
type PaymentInfo struct {
	AccountType   string `json:"account_type"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty"`
	AccountHolder string `json:"account_holder"`
}

// Value implements driver.Valuer for JSONB storage.
func (p PaymentInfo) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (p *PaymentInfo) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		return nil
	}
	return fmt.Errorf("payment info scan: unsupported type %T", src)
}

// Vendor is a marketplace seller profile. There is at most one per user.
type Vendor struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	BusinessName    string       `json:"business_name"`
	BusinessType    BusinessType `json:"business_type"`
	TaxID           *string      `json:"tax_id,omitempty"`
	BusinessAddress Address      `json:"business_address"`
	ContactEmail    string       `json:"contact_email"`
	ContactPhone    string       `json:"contact_phone"`
	Description     *string      `json:"description,omitempty"`
	Logo            *string      `json:"logo,omitempty"`
	Website         *string      `json:"website,omitempty"`
	Status          VendorStatus `json:"status"`
	CommissionRate  float64      `json:"commission_rate"`
	PaymentInfo     PaymentInfo  `json:"payment_info"`
	IsActive        bool         `json:"is_active"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// VendorStats aggregates vendor counts per status. ActivePercentage is
// approved/total as a percentage rounded to two decimals, 0 when there
// are no vendors at all.
type VendorStats struct {
	Total            int     `json:"total"`
	Pending          int     `json:"pending"`
	Approved         int     `json:"approved"`
	Suspended        int     `json:"suspended"`
	ActivePercentage float64 `json:"active_percentage"`
}
