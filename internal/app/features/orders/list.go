// internal/app/features/orders/list.go
package orders

import (
	"context"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/normalize"
	"github.com/unimove/unimove/internal/app/system/paging"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
)

// ServeMine handles GET /orders: the caller's orders, newest first,
// optionally filtered by status.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "sign in required")
		return
	}

	status := normalize.QueryParam(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidOrderStatus(status) {
		respond.BadRequest(w, "unknown order status")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Orders.ListByUser(ctx, uid, status, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list orders", err)
		return
	}
	views, err := h.expand(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list orders", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"orders":     views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}

// ServeDetail handles GET /orders/{id}. Visible to the order's owner
// and to admins.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderstore.ErrNotFound) {
			respond.NotFound(w, "order not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to load order", err)
		return
	}
	if !authz.CanViewOrder(r, order.User) {
		respond.Forbidden(w, "not allowed to view this order")
		return
	}

	views, err := h.expand(ctx, []models.Order{*order})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load order", err)
		return
	}

	respond.OK(w, "", map[string]any{"order": views[0]})
}

// ServeByActivity handles GET /orders/activity/{activityId}: the booking
// list for one activity, restricted to its organizer and admins.
func (h *Handler) ServeByActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r, "activityId")
	if !ok {
		return
	}

	status := normalize.QueryParam(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidOrderStatus(status) {
		respond.BadRequest(w, "unknown order status")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to list activity orders", err)
		return
	}
	if !authz.CanViewActivityOrders(r, activity.Organizer) {
		respond.Forbidden(w, "not allowed to view orders for this activity")
		return
	}

	list, total, err := h.Orders.ListByActivity(ctx, activityID, status, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list activity orders", err)
		return
	}
	views, err := h.expand(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list activity orders", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"orders":     views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}
