// internal/app/features/users/handler.go

// Package users implements registration, login, and profile management.
package users

import (
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler holds dependencies for the user endpoints.
type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users *userstore.Store, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

// credentialed is the register/login response payload: the user plus a
// fresh token pair.
type credentialed struct {
	User         any    `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// profileView is the caller's own account as returned by the profile
// endpoints.
type profileView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role"`
	Created  string `json:"createdAt"`
}
