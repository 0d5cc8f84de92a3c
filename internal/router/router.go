// Package router sets up all HTTP routes and middleware chains for the
// storefront API. Public catalog reads need no session; everything that
// mutates state sits behind authentication, CSRF and role checks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shopcore/internal/handlers"
	"shopcore/internal/middleware"
	"shopcore/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secure controls the CSRF cookie flag.
func New(
	sessionStore *session.Store,
	secure bool,
	auth *handlers.Auth,
	users *handlers.Users,
	categories *handlers.Categories,
	products *handlers.Products,
	vendors *handlers.Vendors,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.NewCSRF(secure))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Login and application submission are brute-force targets.
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	applyLimiter := middleware.NewRateLimiter(5, time.Minute)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Get("/csrf-token", auth.CSRFToken)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", auth.Logout)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", users.Profile)
		r.Patch("/profile", users.UpdateProfile)
	})

	// A single {category} wildcard serves both slug reads and UUID
	// mutations; chi forbids mixing wildcard names at one position.
	r.Route("/categories", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", categories.List)
		r.Get("/tree", categories.Tree)
		r.Get("/{category}", categories.BySlug)
		r.Get("/{category}/children", categories.Children)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", categories.Create)
			r.Put("/{category}", categories.Update)
			r.Delete("/{category}", categories.Delete)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Get("/featured", products.Featured)
		r.Get("/slug/{slug}", products.BySlug)
		r.Get("/vendor/{vendorId}", products.ByVendor)
		r.Get("/category/{categoryId}", products.ByCategory)
		r.Get("/{id}", products.ByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Post("/", products.Create)
			r.Get("/admin/low-stock", products.LowStock)
			r.Patch("/{id}", products.Update)
			r.Patch("/{id}/stock", products.UpdateStock)
			r.Delete("/{id}", products.Remove)
			r.Delete("/{id}/permanent", products.Delete)
			r.Post("/{id}/images", products.UploadImage)
			r.Delete("/images/{imageID}", products.DeleteImage)
		})
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.With(applyLimiter.Middleware).Post("/application", vendors.Apply)
			r.Get("/application/my", vendors.MyApplication)
			r.Patch("/application/my", vendors.UpdateMyApplication)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/", vendors.List)
			r.Get("/stats", vendors.Stats)
			r.Get("/applications/pending", vendors.Pending)
			r.Post("/applications/{id}/approve", vendors.Approve)
			r.Post("/applications/{id}/reject", vendors.Reject)
			r.Post("/{id}/suspend", vendors.Suspend)
			r.Post("/{id}/reactivate", vendors.Reactivate)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
