// internal/app/features/orders/routes.go
package orders

import (
	"github.com/go-chi/chi/v5"
	"github.com/unimove/unimove/internal/app/system/auth"
)

// Routes returns the subrouter for the order endpoints; mounted under
// /orders. Everything here requires a signed-in user.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Use(v.RequireSignedIn)

	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeMine)
	r.Get("/activity/{activityId}", h.ServeByActivity)
	r.Get("/{id}", h.ServeDetail)
	r.Put("/{id}/pay", h.ServePay)
	r.Put("/{id}/cancel", h.ServeCancel)

	return r
}
