// internal/app/features/activities/handler.go

// Package activities implements the activity lifecycle: create, list,
// update, delete, and direct join/leave enrollment.
package activities

import (
	"context"
	"time"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds dependencies for the activity endpoints.
type Handler struct {
	Activities *activitystore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler constructs an activities Handler.
func NewHandler(activities *activitystore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Activities: activities, Users: users, Log: logger}
}

// activityView is an activity with its organizer (and, on the detail
// endpoint, its participants) expanded to user summaries.
type activityView struct {
	models.Activity
	OrganizerUser    *models.UserSummary  `json:"organizerUser,omitempty"`
	ParticipantUsers []models.UserSummary `json:"participantUsers,omitempty"`
}

// expandOrganizers resolves the organizer summary for a page of
// activities in one query.
func (h *Handler) expandOrganizers(ctx context.Context, list []models.Activity) ([]activityView, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.Organizer)
	}
	organizers, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]activityView, 0, len(list))
	for _, a := range list {
		v := activityView{Activity: a}
		if org, ok := organizers[a.Organizer]; ok {
			v.OrganizerUser = &org
		}
		out = append(out, v)
	}
	return out, nil
}

func now() time.Time { return time.Now().UTC() }
