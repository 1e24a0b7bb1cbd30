// internal/app/features/comments/list.go
package comments

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/paging"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeByActivity handles GET /comments/activity/{activityId}: the
// public review listing for one activity, plus its rating statistics.
// An optional rating query narrows the page to one star bucket.
func (h *Handler) ServeByActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r, "activityId")
	if !ok {
		return
	}

	rating := 0
	if v := r.URL.Query().Get("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !inputval.IsValidRating(n) {
			respond.BadRequest(w, "rating must be between 1 and 5")
			return
		}
		rating = n
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}

	list, total, err := h.Comments.ListByActivity(ctx, activityID, rating, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}
	views, err := h.expandUsers(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}
	stats, err := h.Comments.Stats(ctx, activityID)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"comments":   views,
		"stats":      stats,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}

// ServeMine handles GET /comments/my: the caller's own reviews, with
// the reviewed activities expanded.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Comments.ListByUser(ctx, uid, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}

	views, err := h.expandUsers(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}
	activityIDs := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		activityIDs = append(activityIDs, c.Activity)
	}
	activities, err := h.Activities.Summaries(ctx, activityIDs)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list comments", err)
		return
	}
	for i := range views {
		if a, ok := activities[views[i].Activity]; ok {
			views[i].ActivityInfo = &a
		}
	}

	respond.OK(w, "", map[string]any{
		"comments":   views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}
