// internal/app/features/orders/handler.go

// Package orders exposes the booking endpoints. An order is created
// directly in the paid state; a pending order only exists when a future
// payment flow leaves one behind, and the pay endpoint settles it.
package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler carries the dependencies for the order endpoints.
type Handler struct {
	Orders     *orderstore.Store
	Activities *activitystore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler wires an order handler.
func NewHandler(orders *orderstore.Store, activities *activitystore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Orders: orders, Activities: activities, Users: users, Log: logger}
}

// orderView is an order with its user and activity references expanded
// into summaries for the client.
type orderView struct {
	models.Order
	UserInfo     *models.UserSummary     `json:"userInfo,omitempty"`
	ActivityInfo *models.ActivitySummary `json:"activityInfo,omitempty"`
}

// expand resolves the user and activity summaries for a page of orders
// with one batch read per collection.
func (h *Handler) expand(ctx context.Context, list []models.Order) ([]orderView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(list))
	activityIDs := make([]primitive.ObjectID, 0, len(list))
	for _, o := range list {
		userIDs = append(userIDs, o.User)
		activityIDs = append(activityIDs, o.Activity)
	}

	users, err := h.Users.Summaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	activities, err := h.Activities.Summaries(ctx, activityIDs)
	if err != nil {
		return nil, err
	}

	out := make([]orderView, 0, len(list))
	for _, o := range list {
		v := orderView{Order: o}
		if u, ok := users[o.User]; ok {
			v.UserInfo = &u
		}
		if a, ok := activities[o.Activity]; ok {
			v.ActivityInfo = &a
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
