// internal/app/features/activities/list.go
package activities

import (
	"context"
	"net/http"
	"strconv"
	"time"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/normalize"
	"github.com/unimove/unimove/internal/app/system/paging"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
)

// parseListFilter reads the public listing filters from the query
// string. Malformed numeric/date values are ignored rather than
// rejected, matching the tolerant behavior of the rest of the query
// parameters.
func parseListFilter(r *http.Request) activitystore.ListFilter {
	q := r.URL.Query()

	f := activitystore.ListFilter{
		Category: normalize.QueryParam(q.Get("category")),
		Location: normalize.QueryParam(q.Get("location")),
		Search:   normalize.QueryParam(q.Get("search")),
		SortBy:   normalize.QueryParam(q.Get("sortBy")),
		SortDesc: normalize.QueryParam(q.Get("sortOrder")) != "asc",
	}

	if v := q.Get("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartDate = &t
		} else if t, err := time.Parse("2006-01-02", v); err == nil {
			f.StartDate = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.EndDate = &t
		} else if t, err := time.Parse("2006-01-02", v); err == nil {
			f.EndDate = &t
		}
	}
	if v := q.Get("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	return f
}

// ServeList handles GET /activities: the public, filterable listing of
// published activities.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	filter := parseListFilter(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, total, err := h.Activities.List(ctx, filter, page.Skip(), page.Limit64())
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list activities", err)
		return
	}

	views, err := h.expandOrganizers(ctx, list)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to list activities", err)
		return
	}

	respond.OK(w, "", map[string]any{
		"activities": views,
		"pagination": respond.NewPagination(page.Number, page.Limit, total),
	})
}
