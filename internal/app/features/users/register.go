// internal/app/features/users/register.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/inputval"
	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/app/system/timeouts"
	"github.com/unimove/unimove/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// ServeRegister handles POST /users/register.
//
// New accounts always get the "user" role; there is deliberately no way
// to request a role through this endpoint.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if !inputval.IsValidUsername(req.Username) {
		respond.BadRequest(w, "username must be 3-30 characters")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.BadRequest(w, "invalid email address")
		return
	}
	if !inputval.IsValidPassword(req.Password) {
		respond.BadRequest(w, "password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Users.UsernameOrEmailExists(ctx, req.Username, req.Email)
	if err != nil {
		respond.ServerError(w, h.Log, "registration failed", err)
		return
	}
	if exists {
		respond.BadRequest(w, "username or email already exists")
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     "user",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			respond.BadRequest(w, "username or email already exists")
			return
		}
		respond.ServerError(w, h.Log, "registration failed", err)
		return
	}

	token, refresh, err := h.issueTokens(&user)
	if err != nil {
		respond.ServerError(w, h.Log, "registration failed", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("username", user.Username))

	respond.Created(w, "registration successful", credentialed{
		User:         h.profileOf(&user),
		Token:        token,
		RefreshToken: refresh,
	})
}

func (h *Handler) issueTokens(u *models.User) (token, refresh string, err error) {
	token, err = h.Tokens.Generate(u.ID.Hex(), u.Email, u.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err = h.Tokens.GenerateRefresh(u.ID.Hex())
	if err != nil {
		return "", "", err
	}
	return token, refresh, nil
}

func (h *Handler) profileOf(u *models.User) profileView {
	return profileView{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Avatar:   u.Avatar,
		Role:     u.Role,
		Created:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
