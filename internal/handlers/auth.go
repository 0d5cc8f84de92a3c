// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"shopcore/internal/middleware"
	"shopcore/internal/models"
	"shopcore/internal/session"
	"shopcore/internal/store"
)

// Auth groups registration, login and logout handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

// Register creates a new account. Self-registration never grants the
// admin role.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}
	if models.Role(req.Role) == models.RoleAdmin {
		respondError(w, http.StatusForbidden, "Cannot self-register as admin")
		return
	}

	user, err := a.userStore.Register(req.Email, req.Password, req.FirstName, req.LastName, req.Phone, models.Role(req.Role))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and opens a session. The CSRF token for
// subsequent mutating requests is returned alongside the user.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		Role:     user.Role,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"message":   "Login successful",
		"user":      user,
		"csrfToken": middleware.CSRFTokenFromCtx(r.Context()),
	})
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	respond(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CSRFToken returns the double-submit token for clients that need to
// refresh it.
func (a *Auth) CSRFToken(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"csrfToken": middleware.CSRFTokenFromCtx(r.Context()),
	})
}
