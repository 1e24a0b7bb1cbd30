// internal/app/features/activities/update.go
package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/htmlsanitize"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/normalize"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// updateRequest is a partial update: nil means "not in the body".
type updateRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Location        *string    `json:"location"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	MaxParticipants *int       `json:"maxParticipants"`
	Price           *float64   `json:"price"`
	Images          *[]string  `json:"images"`
	Tags            *[]string  `json:"tags"`
	Status          *string    `json:"status"`
}

// hasRestricted reports whether the body carries any field that becomes
// immutable once someone has enrolled.
func (req *updateRequest) hasRestricted() bool {
	return req.StartTime != nil || req.EndTime != nil ||
		req.MaxParticipants != nil || req.Price != nil
}

// ServeUpdate handles PUT /activities/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
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
		respond.ServerError(w, h.Log, "failed to update activity", err)
		return
	}

	if !authz.CanManageActivity(r, activity.Organizer) {
		respond.Forbidden(w, "not allowed to modify this activity")
		return
	}

	if len(activity.Participants) > 0 && req.hasRestricted() {
		respond.BadRequest(w, "activity has participants; time, capacity, and price cannot change")
		return
	}

	set := bson.M{}
	if req.Title != nil {
		if !inputval.WithinLen(*req.Title, inputval.MaxTitleLen) {
			respond.BadRequest(w, "title must be at most 100 characters")
			return
		}
		set["title"] = htmlsanitize.Text(*req.Title)
	}
	if req.Description != nil {
		if !inputval.WithinLen(*req.Description, inputval.MaxDescriptionLen) {
			respond.BadRequest(w, "description must be at most 2000 characters")
			return
		}
		set["description"] = htmlsanitize.Text(*req.Description)
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			respond.BadRequest(w, "category must be one of the supported sport types")
			return
		}
		set["category"] = *req.Category
	}
	if req.Location != nil {
		if !inputval.WithinLen(*req.Location, inputval.MaxLocationLen) {
			respond.BadRequest(w, "location must be at most 200 characters")
			return
		}
		set["location"] = htmlsanitize.Text(*req.Location)
	}
	if req.Status != nil {
		if !models.IsValidActivityStatus(*req.Status) {
			respond.BadRequest(w, "unknown activity status")
			return
		}
		set["status"] = *req.Status
	}
	if req.Images != nil {
		for _, img := range *req.Images {
			if !inputval.IsValidHTTPURL(img) {
				respond.BadRequest(w, "images must be http(s) URLs")
				return
			}
		}
		set["images"] = *req.Images
	}
	if req.Tags != nil {
		set["tags"] = normalize.Tags(*req.Tags)
	}

	// Schedule/capacity/price changes, only reachable while the
	// participant list is still empty.
	start := activity.StartTime
	if req.StartTime != nil {
		start = req.StartTime.UTC()
		set["start_time"] = start
	}
	end := activity.EndTime
	if req.EndTime != nil {
		end = req.EndTime.UTC()
		set["end_time"] = end
	}
	if !end.After(start) {
		respond.BadRequest(w, "endTime must be after startTime")
		return
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 || *req.MaxParticipants > inputval.MaxParticipants {
			respond.BadRequest(w, "maxParticipants must be between 1 and 1000")
			return
		}
		set["max_participants"] = *req.MaxParticipants
	}
	if req.Price != nil {
		if *req.Price < 0 {
			respond.BadRequest(w, "price must not be negative")
			return
		}
		set["price"] = *req.Price
	}

	updated, err := h.Activities.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to update activity", err)
		return
	}

	views, err := h.expandOrganizers(ctx, []models.Activity{*updated})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to update activity", err)
		return
	}

	respond.OK(w, "activity updated", map[string]any{"activity": views[0]})
}
