// internal/app/features/activities/join.go
package activities

import (
	"context"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
)

// ServeJoin handles POST /activities/{id}/join.
//
// The capacity and membership checks happen inside a single conditional
// update in the store, so two racing joins can never over-fill an
// activity. The reads here exist only to give precise error messages.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}
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
		respond.ServerError(w, h.Log, "failed to join activity", err)
		return
	}
	if !activity.StartTime.After(now()) {
		respond.BadRequest(w, "activity has already started")
		return
	}

	if err := h.Activities.Enroll(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, activitystore.ErrNotFound):
			respond.NotFound(w, "activity not found")
		case errors.Is(err, activitystore.ErrNotPublished):
			respond.BadRequest(w, "activity is not open for enrollment")
		case errors.Is(err, activitystore.ErrAlreadyEnrolled):
			respond.BadRequest(w, "already joined this activity")
		case errors.Is(err, activitystore.ErrCapacityFull):
			respond.BadRequest(w, "activity is full")
		default:
			respond.ServerError(w, h.Log, "failed to join activity", err)
		}
		return
	}

	updated, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to join activity", err)
		return
	}
	views, err := h.expandOrganizers(ctx, []models.Activity{*updated})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to join activity", err)
		return
	}

	respond.OK(w, "joined activity", map[string]any{"activity": views[0]})
}

// ServeLeave handles POST /activities/{id}/leave.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}
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
		respond.ServerError(w, h.Log, "failed to leave activity", err)
		return
	}
	if !activity.StartTime.After(now()) {
		respond.BadRequest(w, "activity has already started")
		return
	}

	if err := h.Activities.Withdraw(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, activitystore.ErrNotFound):
			respond.NotFound(w, "activity not found")
		case errors.Is(err, activitystore.ErrNotEnrolled):
			respond.BadRequest(w, "not a participant of this activity")
		default:
			respond.ServerError(w, h.Log, "failed to leave activity", err)
		}
		return
	}

	respond.OK(w, "left activity", nil)
}
