// internal/app/features/activities/delete.go
package activities

import (
	"context"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
)

// ServeDelete handles DELETE /activities/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to delete activity", err)
		return
	}

	if !authz.CanManageActivity(r, activity.Organizer) {
		respond.Forbidden(w, "not allowed to delete this activity")
		return
	}

	if err := h.Activities.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, activitystore.ErrHasParticipants):
			respond.BadRequest(w, "activity has participants and cannot be deleted")
		case errors.Is(err, activitystore.ErrNotFound):
			respond.NotFound(w, "activity not found")
		default:
			respond.ServerError(w, h.Log, "failed to delete activity", err)
		}
		return
	}

	respond.OK(w, "activity deleted", nil)
}
