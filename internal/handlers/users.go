package handlers

import (
	"net/http"
	"strings"

	"shopcore/internal/middleware"
	"shopcore/internal/store"
)

// Users groups the authenticated profile handlers.
type Users struct {
	userStore *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// Profile returns the authenticated user's own record.
func (u *Users) Profile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := u.userStore.FindByID(sess.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if user == nil {
		// Deactivated after the session was issued.
		respondError(w, http.StatusUnauthorized, "Account is no longer active")
		return
	}
	respond(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateProfile changes the user's own name and phone. Email, password
// and role are not editable here.
func (u *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req profileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.FirstName != nil && !validName(*req.FirstName) {
		errs = append(errs, "First name must be between 2 and 50 characters.")
	}
	if req.LastName != nil && !validName(*req.LastName) {
		errs = append(errs, "Last name must be between 2 and 50 characters.")
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		if trimmed != "" && !validPhone(trimmed) {
			errs = append(errs, "Phone number is not valid.")
		}
		req.Phone = &trimmed
	}
	if len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	user, err := u.userStore.UpdateProfile(sess.UserID, store.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, user)
}
