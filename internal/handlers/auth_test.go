// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopcore/internal/session"
)

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	email := "handler-register@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	body := `{"email":"` + email + `","password":"Str0ng!pass","first_name":"Ada","last_name":"Lovelace"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Email != email || resp.User.Role != "customer" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("response must not leak the password hash")
	}
}

func TestRegisterHandlerWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	body := `{"email":"weak@example.com","password":"weak","first_name":"Ada","last_name":"Lovelace"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "details") {
		t.Error("expected field error details in response")
	}
}

func TestRegisterHandlerAdminForbidden(t *testing.T) {
	env := newTestEnv(t)

	body := `{"email":"sneaky@example.com","password":"Str0ng!pass","first_name":"Ada","last_name":"Lovelace","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Register(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for self-registered admin, got %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)

	email := "handler-login@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	regBody := `{"email":"` + email + `","password":"Str0ng!pass","first_name":"Ada","last_name":"Lovelace"}`
	regReq := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(regBody))
	regRec := httptest.NewRecorder()
	env.Auth.Register(regRec, regReq)
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register: %d", regRec.Code)
	}

	t.Run("valid credentials open a session", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"Str0ng!pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		env.Auth.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var sessionCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == session.CookieName {
				sessionCookie = c
			}
		}
		if sessionCookie == nil {
			t.Fatal("expected session cookie on login")
		}
		if !sessionCookie.HttpOnly {
			t.Error("session cookie must be HttpOnly")
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"Wr0ng!pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		env.Auth.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"message"`) {
			t.Errorf("error body should use the message key, got %s", rec.Body.String())
		}
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		body := `{"email":"nobody@example.com","password":"Str0ng!pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		env.Auth.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid email or password") {
			t.Error("unknown email must not be distinguishable from wrong password")
		}
	})
}

func TestProfileHandler(t *testing.T) {
	env := newTestEnv(t)

	email := "handler-profile@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	regBody := `{"email":"` + email + `","password":"Str0ng!pass","first_name":"Ada","last_name":"Lovelace"}`
	regReq := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(regBody))
	regRec := httptest.NewRecorder()
	env.Auth.Register(regRec, regReq)

	user, err := env.UserStore.FindByEmail(email)
	if err != nil || user == nil {
		t.Fatalf("find registered user: %v", err)
	}

	sess := testSession(user.ID, email, user.Role)

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Users.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), email) {
		t.Error("expected own profile in response")
	}

	// Patch the name.
	patch := `{"first_name":"Augusta"}`
	patchReq := httptest.NewRequest(http.MethodPatch, "/users/profile", strings.NewReader(patch))
	patchReq = patchReq.WithContext(ctxWithSession(patchReq.Context(), sess))
	patchRec := httptest.NewRecorder()

	env.Users.UpdateProfile(patchRec, patchReq)

	if patchRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", patchRec.Code, patchRec.Body.String())
	}
	if !strings.Contains(patchRec.Body.String(), "Augusta") {
		t.Error("expected updated first name in response")
	}
}
