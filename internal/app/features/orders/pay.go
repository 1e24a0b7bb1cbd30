// internal/app/features/orders/pay.go
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
)

type payRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ServePay handles PUT /orders/{id}/pay: settle a pending order. The
// seat is taken before the order flips to paid; a booking that was
// already enrolled (the normal create path) passes through unchanged.
func (h *Handler) ServePay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		respond.BadRequest(w, "unsupported payment method")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderstore.ErrNotFound) {
			respond.NotFound(w, "order not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to pay order", err)
		return
	}
	if !authz.CanActOnOrder(r, order.User) {
		respond.Forbidden(w, "not allowed to act on this order")
		return
	}
	if order.Status != models.OrderPending {
		respond.BadRequest(w, "only pending orders can be paid")
		return
	}

	if err := h.Activities.EnrollIfAbsent(ctx, order.Activity, order.User); err != nil {
		switch {
		case errors.Is(err, activitystore.ErrNotFound):
			respond.NotFound(w, "activity not found")
		case errors.Is(err, activitystore.ErrNotPublished):
			respond.BadRequest(w, "activity is not open for enrollment")
		case errors.Is(err, activitystore.ErrCapacityFull):
			respond.BadRequest(w, "activity is full")
		default:
			respond.ServerError(w, h.Log, "failed to pay order", err)
		}
		return
	}

	paid, err := h.Orders.MarkPaid(ctx, id, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, orderstore.ErrNotFound) {
			// Lost a race with another state change on the same order.
			respond.BadRequest(w, "only pending orders can be paid")
			return
		}
		respond.ServerError(w, h.Log, "failed to pay order", err)
		return
	}

	views, err := h.expand(ctx, []models.Order{*paid})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to pay order", err)
		return
	}

	respond.OK(w, "order paid", map[string]any{"order": views[0]})
}
