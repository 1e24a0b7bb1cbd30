// internal/app/features/activities/mine.go
package activities

import (
	"context"
	"net/http"

	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/normalize"
	"github.com/unimove/unimove/internal/app/system/paging"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
)

// ServeMyCreated handles GET /activities/my/created: activities the
// caller organizes, optionally filtered by status.
func (h *Handler) ServeMyCreated(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}

	status := normalize.QueryParam(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidActivityStatus(status) {
		respond.BadRequest(w, "unknown activity status")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Activities.ListByOrganizer(ctx, uid, status, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list created activities", err)
		return
	}
	views, err := h.expandOrganizers(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list created activities", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"activities": views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}

// ServeMyJoined handles GET /activities/my/joined: activities the
// caller participates in, soonest start first.
func (h *Handler) ServeMyJoined(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Activities.ListByParticipant(ctx, uid, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list joined activities", err)
		return
	}
	views, err := h.expandOrganizers(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list joined activities", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"activities": views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}
