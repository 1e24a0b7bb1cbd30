// internal/app/features/users/profile.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/authz"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
)

// ServeProfile handles GET /users/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to load profile", err)
		return
	}
	if user == nil {
		respond.NotFound(w, "user not found")
		return
	}

	respond.OK(w, "", map[string]any{"user": h.profileOf(user)})
}

type profileUpdateRequest struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// ServeProfileUpdate handles PUT /users/profile. Partial update: only
// fields present in the body are changed.
func (h *Handler) ServeProfileUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "not authenticated")
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if req.Username != nil && !inputval.IsValidUsername(*req.Username) {
		respond.BadRequest(w, "username must be 3-30 characters")
		return
	}
	if req.Avatar != nil && *req.Avatar != "" && !inputval.IsValidHTTPURL(*req.Avatar) {
		respond.BadRequest(w, "avatar must be an http(s) URL")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		Username: req.Username,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			respond.BadRequest(w, "username or email already exists")
			return
		}
		respond.ServerError(w, h.Log, "failed to update profile", err)
		return
	}
	if user == nil {
		respond.NotFound(w, "user not found")
		return
	}

	respond.OK(w, "profile updated", map[string]any{"user": h.profileOf(user)})
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServePasswordChange handles PUT /users/password.
func (h *Handler) ServePasswordChange(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "not authenticated")
		return
	}

	var req passwordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}
	if !inputval.IsValidPassword(req.NewPassword) {
		respond.BadRequest(w, "password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		respond.ServerError(w, h.Log, "failed to change password", err)
		return
	}
	if user == nil {
		respond.NotFound(w, "user not found")
		return
	}
	if !userstore.VerifyPassword(user, req.CurrentPassword) {
		respond.BadRequest(w, "current password is incorrect")
		return
	}

	if err := h.Users.SetPassword(ctx, uid, req.NewPassword); err != nil {
		respond.ServerError(w, h.Log, "failed to change password", err)
		return
	}

	respond.OK(w, "password changed", nil)
}
