// internal/app/features/comments/handler.go

// Package comments exposes the review endpoints. Only users who paid
// for a spot may review an activity, once each, and an author can edit
// for 24 hours after posting.
package comments

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	commentstore "github.com/unimove/unimove/internal/app/store/comments"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler carries the dependencies for the comment endpoints.
type Handler struct {
	Comments   *commentstore.Store
	Activities *activitystore.Store
	Orders     *orderstore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler wires a comment handler.
func NewHandler(comments *commentstore.Store, activities *activitystore.Store, orders *orderstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Comments: comments, Activities: activities, Orders: orders, Users: users, Log: logger}
}

// commentView is a comment with its author expanded, and optionally the
// activity for the caller's own listing.
type commentView struct {
	models.Comment
	UserInfo     *models.UserSummary     `json:"userInfo,omitempty"`
	ActivityInfo *models.ActivitySummary `json:"activityInfo,omitempty"`
}

// expandUsers resolves author summaries for a page of comments with one
// batch read.
func (h *Handler) expandUsers(ctx context.Context, list []models.Comment) ([]commentView, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.User)
	}
	users, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]commentView, 0, len(list))
	for _, c := range list {
		v := commentView{Comment: c}
		if u, ok := users[c.User]; ok {
			v.UserInfo = &u
		}
		out = append(out, v)
	}
	return out, nil
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func now() time.Time { return time.Now().UTC() }
