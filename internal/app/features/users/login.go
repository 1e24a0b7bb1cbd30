// internal/app/features/users/login.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /users/login.
//
// Unknown email and wrong password answer with the same message so the
// endpoint does not leak which accounts exist.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		respond.ServerError(w, h.Log, "login failed", err)
		return
	}
	if user == nil || !userstore.VerifyPassword(user, req.Password) {
		respond.Unauthorized(w, "incorrect email or password")
		return
	}
	if !user.IsActive {
		respond.Unauthorized(w, "account is disabled")
		return
	}

	token, refresh, err := h.issueTokens(user)
	if err != nil {
		respond.ServerError(w, h.Log, "login failed", err)
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	respond.OK(w, "login successful", credentialed{
		User:         h.profileOf(user),
		Token:        token,
		RefreshToken: refresh,
	})
}
