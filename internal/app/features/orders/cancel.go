// internal/app/features/orders/cancel.go
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/htmlsanitize"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.uber.org/zap"
)

// refundCutoff is how long before the activity starts a paid order can
// still be cancelled for a full refund.
const refundCutoff = 24 * time.Hour

const defaultCancelReason = "user cancelled"

type cancelRequest struct {
	Reason string `json:"reason"`
}

// ServeCancel handles PUT /orders/{id}/cancel. A pending order is
// simply cancelled. A paid order is refunded in full, but only while
// the activity start is at least 24 hours away, and the seat is
// released.
func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// Body is optional; a missing reason falls back to the default.
	var req cancelRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if !inputval.WithinLenOrEmpty(req.Reason, inputval.MaxCancelReason) {
		respond.BadRequest(w, "reason must be at most 500 characters")
		return
	}
	reason := htmlsanitize.Text(req.Reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderstore.ErrNotFound) {
			respond.NotFound(w, "order not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to cancel order", err)
		return
	}
	if !authz.CanActOnOrder(r, order.User) {
		respond.Forbidden(w, "not allowed to act on this order")
		return
	}

	switch order.Status {
	case models.OrderPending:
		cancelled, err := h.Orders.MarkCancelled(ctx, id, reason)
		if err != nil {
			if errors.Is(err, orderstore.ErrNotFound) {
				respond.BadRequest(w, "order is no longer pending")
				return
			}
			respond.ServerError(w, h.Log, "failed to cancel order", err)
			return
		}
		h.respondWith(ctx, w, "order cancelled", cancelled)

	case models.OrderPaid:
		activity, err := h.Activities.GetByID(ctx, order.Activity)
		if err != nil && !errors.Is(err, activitystore.ErrNotFound) {
			respond.ServerError(w, h.Log, "failed to cancel order", err)
			return
		}
		if activity != nil && activity.StartTime.Sub(now()) < refundCutoff {
			respond.BadRequest(w, "paid orders can only be cancelled 24 hours before the activity starts")
			return
		}

		refunded, err := h.Orders.MarkRefunded(ctx, id, reason)
		if err != nil {
			if errors.Is(err, orderstore.ErrNotFound) {
				respond.BadRequest(w, "order is no longer paid")
				return
			}
			respond.ServerError(w, h.Log, "failed to cancel order", err)
			return
		}

		if err := h.Activities.Withdraw(ctx, order.Activity, order.User); err != nil &&
			!errors.Is(err, activitystore.ErrNotEnrolled) &&
			!errors.Is(err, activitystore.ErrNotFound) {
			h.Log.Error("seat release failed after refund",
				zap.String("order", order.ID.Hex()),
				zap.Error(err))
		}
		h.respondWith(ctx, w, "order refunded", refunded)

	default:
		respond.BadRequest(w, "order is already closed")
	}
}

func (h *Handler) respondWith(ctx context.Context, w http.ResponseWriter, message string, order *models.Order) {
	views, err := h.expand(ctx, []models.Order{*order})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load order", err)
		return
	}
	respond.OK(w, message, map[string]any{"order": views[0]})
}
