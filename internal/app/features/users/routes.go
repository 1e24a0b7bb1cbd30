// internal/app/features/users/routes.go
package users

import (
	"github.com/unimove/unimove/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter for the user endpoints; mounted under
// /users.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.ServeRegister)
	r.Post("/login", h.ServeLogin)

	r.Group(func(r chi.Router) {
		r.Use(v.RequireSignedIn)
		r.Get("/profile", h.ServeProfile)
		r.Put("/profile", h.ServeProfileUpdate)
		r.Put("/password", h.ServePasswordChange)
	})

	return r
}
