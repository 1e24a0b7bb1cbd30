// internal/app/features/activities/routes.go
package activities

import (
	"github.com/go-chi/chi/v5"
	"github.com/unimove/unimove/internal/app/system/auth"
)

// Routes returns the subrouter for the activity endpoints; mounted
// under /activities. Listing and detail are public; everything else
// requires a signed-in user.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(r chi.Router) {
		r.Use(v.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Get("/my/created", h.ServeMyCreated)
		r.Get("/my/joined", h.ServeMyJoined)
		r.Put("/{id}", h.ServeUpdate)
		r.Delete("/{id}", h.ServeDelete)
		r.Post("/{id}/join", h.ServeJoin)
		r.Post("/{id}/leave", h.ServeLeave)
	})

	r.Get("/{id}", h.ServeDetail)

	return r
}
