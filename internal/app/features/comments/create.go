// internal/app/features/comments/create.go
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	commentstore "github.com/unimove/unimove/internal/app/store/comments"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/htmlsanitize"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	ActivityID string   `json:"activityId"`
	Content    string   `json:"content"`
	Rating     int      `json:"rating"`
	Images     []string `json:"images"`
}

func (req *createRequest) validate() string {
	if req.Content == "" {
		return "content is required"
	}
	if !inputval.WithinLen(req.Content, inputval.MaxCommentLen) {
		return "content must be at most 1000 characters"
	}
	if !inputval.IsValidRating(req.Rating) {
		return "rating must be between 1 and 5"
	}
	for _, img := range req.Images {
		if !inputval.IsValidHTTPURL(img) {
			return "images must be http(s) URLs"
		}
	}
	return ""
}

// ServeCreate handles POST /comments. The author must hold a paid
// order for the activity, and may review it only once.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	activityID, err := primitive.ObjectIDFromHex(req.ActivityID)
	if err != nil {
		respond.BadRequest(w, "invalid activity id")
		return
	}
	if msg := req.validate(); msg != "" {
		respond.BadRequest(w, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to create comment", err)
		return
	}

	paid, err := h.Orders.HasPaidOrder(ctx, uid, activityID)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create comment", err)
		return
	}
	if !paid {
		respond.Forbidden(w, "only participants with a paid order can comment")
		return
	}

	// Pre-check the one-review rule; the unique index still catches a
	// concurrent duplicate below.
	exists, err := h.Comments.ExistsForUser(ctx, uid, activityID)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create comment", err)
		return
	}
	if exists {
		respond.BadRequest(w, "this activity has already been reviewed")
		return
	}

	comment, err := h.Comments.Create(ctx, models.Comment{
		User:     uid,
		Activity: activityID,
		Content:  htmlsanitize.Text(req.Content),
		Rating:   req.Rating,
		Images:   req.Images,
	})
	if err != nil {
		if errors.Is(err, commentstore.ErrDuplicate) {
			respond.BadRequest(w, "this activity has already been reviewed")
			return
		}
		respond.ServerError(w, h.Log, "failed to create comment", err)
		return
	}

	views, err := h.expandUsers(ctx, []models.Comment{comment})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create comment", err)
		return
	}

	respond.Created(w, "comment posted", map[string]any{"comment": views[0]})
}
