// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	"shopcore/internal/models"
)

// VendorStore manages vendor applications and their review lifecycle.
// Status transitions are guarded here: pending → approved ⇄ suspended,
// with rejection deleting the application outright.
type VendorStore struct {
	db *sql.DB
}

// NewVendorStore returns a new VendorStore.
func NewVendorStore(db *sql.DB) *VendorStore {
	return &VendorStore{db: db}
}

const vendorColumns = `id, user_id, business_name, business_type, tax_id, business_address,
	contact_email, contact_phone, description, logo, website, status,
	commission_rate, payment_info, is_active, approved_at, created_at, updated_at`

// scanVendor scans a row into a Vendor struct.
func scanVendor(scanner interface{ Scan(...any) error }) (*models.Vendor, error) {
	var v models.Vendor
	err := scanner.Scan(
		&v.ID, &v.UserID, &v.BusinessName, &v.BusinessType, &v.TaxID, &v.BusinessAddress,
		&v.ContactEmail, &v.ContactPhone, &v.Description, &v.Logo, &v.Website, &v.Status,
		&v.CommissionRate, &v.PaymentInfo, &v.IsActive, &v.ApprovedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Submit files a new vendor application for a user. The application
// starts pending and inactive. Fails with ErrConflict when the user
// already has one.
func (s *VendorStore) Submit(v *models.Vendor) (*models.Vendor, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM vendors WHERE user_id = $1)`, v.UserID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check vendor application: %w", err)
	}
	if exists {
		return nil, conflict("User already has a vendor account")
	}

	row := s.db.QueryRow(`
		INSERT INTO vendors (
			user_id, business_name, business_type, tax_id, business_address,
			contact_email, contact_phone, description, logo, website, payment_info
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+vendorColumns,
		v.UserID, v.BusinessName, v.BusinessType, v.TaxID, v.BusinessAddress,
		v.ContactEmail, v.ContactPhone, v.Description, v.Logo, v.Website, v.PaymentInfo,
	)
	created, err := scanVendor(row)
	if err != nil {
		return nil, translateUnique("submit vendor application", err, "User already has a vendor account")
	}
	return created, nil
}

// FindByUserID retrieves the vendor application belonging to a user.
func (s *VendorStore) FindByUserID(userID uuid.UUID) (*models.Vendor, error) {
	row := s.db.QueryRow(`SELECT `+vendorColumns+` FROM vendors WHERE user_id = $1`, userID)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Vendor application not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find vendor by user: %w", err)
	}
	return v, nil
}

// FindByID retrieves a vendor by ID.
func (s *VendorStore) FindByID(id uuid.UUID) (*models.Vendor, error) {
	row := s.db.QueryRow(`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, notFound("Vendor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find vendor by id: %w", err)
	}
	return v, nil
}

// VendorUpdate carries the fields an applicant may change before review.
// Nil fields are left untouched.
type VendorUpdate struct {
	BusinessName    *string
	BusinessType    *models.BusinessType
	TaxID           *string
	BusinessAddress *models.Address
	ContactEmail    *string
	ContactPhone    *string
	Description     *string
	Logo            *string
	Website         *string
	PaymentInfo     *models.PaymentInfo
}

// UpdateApplication merges the provided fields into a user's own
// application. Only pending applications may be edited; fails with
// ErrInvalid once the application has been reviewed.
func (s *VendorStore) UpdateApplication(userID uuid.UUID, update VendorUpdate) (*models.Vendor, error) {
	v, err := s.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if v.Status != models.VendorPending {
		return nil, invalid("Cannot update application after review")
	}

	if update.BusinessName != nil {
		v.BusinessName = *update.BusinessName
	}
	if update.BusinessType != nil {
		v.BusinessType = *update.BusinessType
	}
	if update.TaxID != nil {
		v.TaxID = update.TaxID
	}
	if update.BusinessAddress != nil {
		v.BusinessAddress = *update.BusinessAddress
	}
	if update.ContactEmail != nil {
		v.ContactEmail = *update.ContactEmail
	}
	if update.ContactPhone != nil {
		v.ContactPhone = *update.ContactPhone
	}
	if update.Description != nil {
		v.Description = update.Description
	}
	if update.Logo != nil {
		v.Logo = update.Logo
	}
	if update.Website != nil {
		v.Website = update.Website
	}
	if update.PaymentInfo != nil {
		v.PaymentInfo = *update.PaymentInfo
	}

	row := s.db.QueryRow(`
		UPDATE vendors SET
			business_name = $1, business_type = $2, tax_id = $3, business_address = $4,
			contact_email = $5, contact_phone = $6, description = $7, logo = $8,
			website = $9, payment_info = $10, updated_at = NOW()
		WHERE user_id = $11 AND status = 'pending'
		RETURNING `+vendorColumns,
		v.BusinessName, v.BusinessType, v.TaxID, v.BusinessAddress,
		v.ContactEmail, v.ContactPhone, v.Description, v.Logo,
		v.Website, v.PaymentInfo, userID,
	)
	updated, err := scanVendor(row)
	if err == sql.ErrNoRows {
		// Reviewed between the check and the write.
		return nil, invalid("Cannot update application after review")
	}
	if err != nil {
		return nil, fmt.Errorf("update vendor application: %w", err)
	}
	return updated, nil
}

// Pending returns pending applications, oldest first so reviewers work
// through the queue in submission order.
func (s *VendorStore) Pending() ([]models.Vendor, error) {
	return s.collect(`SELECT ` + vendorColumns + ` FROM vendors WHERE status = 'pending' ORDER BY created_at ASC`)
}

// List returns vendors newest first, optionally filtered by status.
func (s *VendorStore) List(status *models.VendorStatus) ([]models.Vendor, error) {
	if status != nil {
		return s.collect(`SELECT `+vendorColumns+` FROM vendors WHERE status = $1 ORDER BY created_at DESC`, *status)
	}
	return s.collect(`SELECT ` + vendorColumns + ` FROM vendors ORDER BY created_at DESC`)
}

func (s *VendorStore) collect(query string, args ...any) ([]models.Vendor, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var items []models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// Approve moves a pending application to approved, activates the vendor
// and stamps the approval time. An optional commission rate overrides
// the default.
func (s *VendorStore) Approve(id uuid.UUID, commissionRate *float64) (*models.Vendor, error) {
	return s.transition(id, models.VendorPending, "Can only approve pending applications", `
		UPDATE vendors SET
			status = 'approved', is_active = TRUE, approved_at = NOW(),
			commission_rate = COALESCE($2::numeric, commission_rate), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+vendorColumns, commissionRate)
}

// Reject deletes a pending application outright. The user may apply
// again later.
func (s *VendorStore) Reject(id uuid.UUID) error {
	v, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if v.Status != models.VendorPending {
		return invalid("Can only reject pending applications")
	}

	res, err := s.db.Exec(`DELETE FROM vendors WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("reject vendor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject vendor: %w", err)
	}
	if affected == 0 {
		return invalid("Can only reject pending applications")
	}
	return nil
}

// Suspend deactivates an approved vendor.
func (s *VendorStore) Suspend(id uuid.UUID) (*models.Vendor, error) {
	return s.transition(id, models.VendorApproved, "Can only suspend approved vendors", `
		UPDATE vendors SET status = 'suspended', is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
		RETURNING `+vendorColumns)
}

// Reactivate restores a suspended vendor to approved.
func (s *VendorStore) Reactivate(id uuid.UUID) (*models.Vendor, error) {
	return s.transition(id, models.VendorSuspended, "Can only reactivate suspended vendors", `
		UPDATE vendors SET status = 'approved', is_active = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = 'suspended'
		RETURNING `+vendorColumns)
}

// transition runs a guarded status update. The query's WHERE clause
// repeats the expected-status check so a concurrent transition cannot
// slip through between the read and the write.
func (s *VendorStore) transition(id uuid.UUID, expect models.VendorStatus, guardMsg, query string, extra ...any) (*models.Vendor, error) {
	v, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if v.Status != expect {
		return nil, invalid("%s", guardMsg)
	}

	args := append([]any{id}, extra...)
	row := s.db.QueryRow(query, args...)
	updated, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, invalid("%s", guardMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("transition vendor: %w", err)
	}
	return updated, nil
}

// Stats aggregates vendor counts per status in one query.
func (s *VendorStore) Stats() (*models.VendorStats, error) {
	var stats models.VendorStats
	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'suspended')
		FROM vendors
	`).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Suspended)
	if err != nil {
		return nil, fmt.Errorf("vendor stats: %w", err)
	}

	if stats.Total > 0 {
		pct := float64(stats.Approved) / float64(stats.Total) * 100
		stats.ActivePercentage = math.Round(pct*100) / 100
	}
	return &stats, nil
}
