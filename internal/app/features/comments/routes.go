// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"
	"github.com/unimove/unimove/internal/app/system/auth"
)

// Routes returns the subrouter for the comment endpoints; mounted under
// /comments. The per-activity listing is public.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Get("/activity/{activityId}", h.ServeByActivity)

	r.Group(func(r chi.Router) {
		r.Use(v.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Get("/my", h.ServeMine)
		r.Put("/{id}", h.ServeUpdate)
		r.Delete("/{id}", h.ServeDelete)
	})

	return r
}
