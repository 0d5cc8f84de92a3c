// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"shopcore/internal/middleware"
	"shopcore/internal/models"
	"shopcore/internal/store"
)

// Vendors groups the vendor application and review handlers.
type Vendors struct {
	vendorStore *store.VendorStore
}

// NewVendors creates a new Vendors handler group.
func NewVendors(vendorStore *store.VendorStore) *Vendors {
	return &Vendors{vendorStore: vendorStore}
}

// Apply files a vendor application for the authenticated user.
func (v *Vendors) Apply(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req vendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(true); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	vendor := &models.Vendor{
		UserID:          sess.UserID,
		BusinessName:    *req.BusinessName,
		BusinessType:    models.BusinessType(*req.BusinessType),
		TaxID:           req.TaxID,
		BusinessAddress: *req.BusinessAddress,
		ContactEmail:    *req.ContactEmail,
		ContactPhone:    *req.ContactPhone,
		Description:     req.Description,
		Logo:            req.Logo,
		Website:         req.Website,
		PaymentInfo:     *req.PaymentInfo,
	}

	created, err := v.vendorStore.Submit(vendor)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// MyApplication returns the authenticated user's own application.
func (v *Vendors) MyApplication(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	vendor, err := v.vendorStore.FindByUserID(sess.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, vendor)
}

// UpdateMyApplication edits the user's own pending application.
func (v *Vendors) UpdateMyApplication(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req vendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(false); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	update := store.VendorUpdate{
		BusinessName:    req.BusinessName,
		TaxID:           req.TaxID,
		BusinessAddress: req.BusinessAddress,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Description:     req.Description,
		Logo:            req.Logo,
		Website:         req.Website,
		PaymentInfo:     req.PaymentInfo,
	}
	if req.BusinessType != nil {
		bt := models.BusinessType(*req.BusinessType)
		update.BusinessType = &bt
	}

	updated, err := v.vendorStore.UpdateApplication(sess.UserID, update)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// Pending returns the review queue, oldest first. Admin only.
func (v *Vendors) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := v.vendorStore.Pending()
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

type approveRequest struct {
	CommissionRate *float64 `json:"commission_rate,omitempty"`
}

// Approve accepts a pending application, optionally overriding the
// commission rate. Admin only.
func (v *Vendors) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req approveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 100) {
		respondError(w, http.StatusBadRequest, "Commission rate must be between 0 and 100")
		return
	}

	vendor, err := v.vendorStore.Approve(id, req.CommissionRate)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, vendor)
}

// Reject deletes a pending application. Admin only.
func (v *Vendors) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := v.vendorStore.Reject(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Application rejected"})
}

// Suspend deactivates an approved vendor. Admin only.
func (v *Vendors) Suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	vendor, err := v.vendorStore.Suspend(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, vendor)
}

// Reactivate restores a suspended vendor. Admin only.
func (v *Vendors) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	vendor, err := v.vendorStore.Reactivate(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, vendor)
}

// List returns all vendors, optionally filtered by ?status=. Admin only.
func (v *Vendors) List(w http.ResponseWriter, r *http.Request) {
	var status *models.VendorStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if !models.ValidVendorStatus(s) {
			respondError(w, http.StatusBadRequest, "Status must be one of: pending, approved, suspended")
			return
		}
		vs := models.VendorStatus(s)
		status = &vs
	}

	items, err := v.vendorStore.List(status)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// Stats returns aggregate vendor counts. Admin only.
func (v *Vendors) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := v.vendorStore.Stats()
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}
