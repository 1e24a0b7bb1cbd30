// internal/app/features/activities/create.go
package activities

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/htmlsanitize"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/normalize"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	MaxParticipants int       `json:"maxParticipants"`
	Price           float64   `json:"price"`
	Images          []string  `json:"images"`
	Tags            []string  `json:"tags"`
}

// validate returns an empty string when the request is acceptable, or a
// message naming the offending field.
func (req *createRequest) validate(now time.Time) string {
	if !inputval.WithinLen(req.Title, inputval.MaxTitleLen) {
		return "title is required and must be at most 100 characters"
	}
	if !inputval.WithinLen(req.Description, inputval.MaxDescriptionLen) {
		return "description is required and must be at most 2000 characters"
	}
	if !models.IsValidCategory(req.Category) {
		return "category must be one of the supported sport types"
	}
	if !inputval.WithinLen(req.Location, inputval.MaxLocationLen) {
		return "location is required and must be at most 200 characters"
	}
	if req.StartTime.IsZero() || !req.StartTime.After(now) {
		return "startTime must be in the future"
	}
	if !req.EndTime.After(req.StartTime) {
		return "endTime must be after startTime"
	}
	if req.MaxParticipants < 1 || req.MaxParticipants > inputval.MaxParticipants {
		return "maxParticipants must be between 1 and 1000"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	for _, img := range req.Images {
		if !inputval.IsValidHTTPURL(img) {
			return "images must be http(s) URLs"
		}
	}
	return ""
}

// ServeCreate handles POST /activities. The caller becomes the
// organizer and the activity is published immediately.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "not authenticated")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(now()); msg != "" {
		respond.BadRequest(w, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activity, err := h.Activities.Create(ctx, models.Activity{
		Title:           htmlsanitize.Text(req.Title),
		Description:     htmlsanitize.Text(req.Description),
		Category:        req.Category,
		Location:        htmlsanitize.Text(req.Location),
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		MaxParticipants: req.MaxParticipants,
		Price:           req.Price,
		Images:          req.Images,
		Tags:            normalize.Tags(req.Tags),
		Organizer:       uid,
		Status:          models.ActivityPublished,
	})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create activity", err)
		return
	}

	h.Log.Info("activity created",
		zap.String("activity_id", activity.ID.Hex()),
		zap.String("organizer", uid.Hex()))

	views, err := h.expandOrganizers(ctx, []models.Activity{activity})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to create activity", err)
		return
	}

	respond.Created(w, "activity created", map[string]any{"activity": views[0]})
}
