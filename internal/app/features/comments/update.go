// internal/app/features/comments/update.go
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	commentstore "github.com/unimove/unimove/internal/app/store/comments"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/htmlsanitize"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
)

// updateRequest is a partial edit: nil means "not in the body".
type updateRequest struct {
	Content *string   `json:"content"`
	Rating  *int      `json:"rating"`
	Images  *[]string `json:"images"`
}

// ServeUpdate handles PUT /comments/{id}. Only the author may edit,
// and only within 24 hours of posting.
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

	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commentstore.ErrNotFound) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to update comment", err)
		return
	}
	if !authz.CanEditComment(r, comment.User) {
		respond.Forbidden(w, "not allowed to edit this comment")
		return
	}
	if !comment.Editable(now()) {
		respond.BadRequest(w, "comments can only be edited within 24 hours of posting")
		return
	}

	upd := commentstore.Update{}
	if req.Content != nil {
		if *req.Content == "" || !inputval.WithinLen(*req.Content, inputval.MaxCommentLen) {
			respond.BadRequest(w, "content must be between 1 and 1000 characters")
			return
		}
		clean := htmlsanitize.Text(*req.Content)
		upd.Content = &clean
	}
	if req.Rating != nil {
		if !inputval.IsValidRating(*req.Rating) {
			respond.BadRequest(w, "rating must be between 1 and 5")
			return
		}
		upd.Rating = req.Rating
	}
	if req.Images != nil {
		for _, img := range *req.Images {
			if !inputval.IsValidHTTPURL(img) {
				respond.BadRequest(w, "images must be http(s) URLs")
				return
			}
		}
		upd.Images = req.Images
	}

	updated, err := h.Comments.Apply(ctx, id, upd)
	if err != nil {
		if errors.Is(err, commentstore.ErrNotFound) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to update comment", err)
		return
	}

	views, err := h.expandUsers(ctx, []models.Comment{*updated})
	if err != nil {
		respond.ServerError(w, h.Log, "failed to update comment", err)
		return
	}

	respond.OK(w, "comment updated", map[string]any{"comment": views[0]})
}
