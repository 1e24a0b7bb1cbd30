// internal/app/features/activities/detail.go
package activities

import (
	"context"
	"errors"
	"net/http"

	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pathID parses the {id} URL parameter, answering 400 itself when the
// hex is malformed.
func pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeDetail handles GET /activities/{id}, expanding both the
// organizer and the participant list.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activitystore.ErrNotFound) {
			respond.NotFound(w, "activity not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to load activity", err)
		return
	}

	ids := append([]primitive.ObjectID{activity.Organizer}, activity.Participants...)
	users, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load activity", err)
		return
	}

	view := activityView{Activity: *activity}
	if org, ok := users[activity.Organizer]; ok {
		view.OrganizerUser = &org
	}
	view.ParticipantUsers = make([]models.UserSummary, 0, len(activity.Participants))
	for _, pid := range activity.Participants {
		if u, ok := users[pid]; ok {
			view.ParticipantUsers = append(view.ParticipantUsers, u)
		}
	}

	respond.OK(w, "", map[string]any{"activity": view})
}
