// internal/app/features/orders/create.go
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	ActivityID    string `json:"activityId"`
	PaymentMethod string `json:"paymentMethod"`
}

// ServeCreate handles POST /orders: book a spot on an activity and pay
// for it in one step. The seat is taken with the activity store's
// conditional enrollment before the order is written; if the order
// insert then fails the enrollment is rolled back.
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
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		respond.BadRequest(w, "unsupported payment method")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to create order", err)
		return
	}
	if !activity.StartTime.After(now()) {
		respond.BadRequest(w, "activity has already started")
		return
	}

	// Cheap pre-check for the common duplicate; the partial unique index
	// still catches a concurrent create below.
	live, err := h.Orders.HasLiveOrder(ctx, uid, activityID)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create order", err)
		return
	}
	if live {
		respond.BadRequest(w, "an order for this activity already exists")
		return
	}

	if err := h.Activities.Enroll(ctx, activityID, uid); err != nil {
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
			respond.ServerError(w, h.Log, "failed to create order", err)
		}
		return
	}

	paidAt := now()
	order, err := h.Orders.Create(ctx, models.Order{
		User:          uid,
		Activity:      activityID,
		Amount:        activity.Price,
		Status:        models.OrderPaid,
		PaymentMethod: req.PaymentMethod,
		PaymentTime:   &paidAt,
	})
	if err != nil {
		// Give the seat back so the failed booking leaves no trace.
		if werr := h.Activities.Withdraw(ctx, activityID, uid); werr != nil {
			h.Log.Error("enrollment rollback failed",
				zap.String("activity", activityID.Hex()),
				zap.String("user", uid.Hex()),
				zap.Error(werr))
		}
		if errors.Is(err, orderstore.ErrDuplicateLive) {
			respond.BadRequest(w, "an order for this activity already exists")
			return
		}
		respond.ServerError(w, h.Log, "failed to create order", err)
		return
	}

	views, err := h.expand(ctx, []models.Order{order})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create order", err)
		return
	}

	respond.Created(w, "order created", map[string]any{"order": views[0]})
}
