// internal/app/features/comments/delete.go
package comments

import (
	"context"
	"errors"
	"net/http"

	commentstore "github.com/unimove/unimove/internal/app/store/comments"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
)

// ServeDelete handles DELETE /comments/{id}. The author and admins may
// delete; there is no time window on deletion.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
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
		respond.ServerError(w, h.Log, "failed to delete comment", err)
		return
	}
	if !authz.CanDeleteComment(r, comment.User) {
		respond.Forbidden(w, "not allowed to delete this comment")
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		if errors.Is(err, commentstore.ErrNotFound) {
			respond.NotFound(w, "comment not found")
			return
		}
		respond.ServerError(w, h.Log, "failed to delete comment", err)
		return
	}

	respond.OK(w, "comment deleted", nil)
}
