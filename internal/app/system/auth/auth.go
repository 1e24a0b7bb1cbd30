// internal/app/system/auth/auth.go

// Package auth authenticates API requests from bearer tokens.
//
// Every request is independently authenticated: the middleware decodes
// the Authorization header, verifies the token, and re-fetches the user
// so role changes and disabled accounts take effect immediately. No
// session state is kept server-side.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/unimove/unimove/internal/app/system/respond"
	"github.com/unimove/unimove/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthUser is the resolved identity injected into r.Context().
type AuthUser struct {
	ID       string
	Username string
	Email    string
	Role     string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a found flag.
func CurrentUser(r *http.Request) (*AuthUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*AuthUser)
	return u, ok
}

func withUser(r *http.Request, u *AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing the
// middleware. Test helper only.
func WithTestUser(r *http.Request, u *AuthUser) *http.Request {
	return withUser(r, u)
}

// UserFetcher loads a user for token validation. Implemented by the user
// store; kept as an interface so middleware tests can stub it.
type UserFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Verifier is the request-authentication gate. It fails closed: any
// missing, malformed, or expired token, and any token whose user no
// longer exists or is disabled, yields a 401.
type Verifier struct {
	Tokens *TokenManager
	Users  UserFetcher
	Log    *zap.Logger
}

// NewVerifier constructs a Verifier.
func NewVerifier(tm *TokenManager, users UserFetcher, logger *zap.Logger) *Verifier {
	return &Verifier{Tokens: tm, Users: users, Log: logger}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSignedIn authenticates the request and injects the user into
// context, rejecting with 401 otherwise.
func (v *Verifier) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respond.Unauthorized(w, "missing access token")
			return
		}

		claims, err := v.Tokens.Verify(token)
		if err != nil {
			respond.Unauthorized(w, "invalid access token")
			return
		}

		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			respond.Unauthorized(w, "invalid access token")
			return
		}

		user, err := v.Users.GetByID(r.Context(), uid)
		if err != nil || user == nil || !user.IsActive {
			respond.Unauthorized(w, "account not found or disabled")
			return
		}

		next.ServeHTTP(w, withUser(r, &AuthUser{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		}))
	})
}

// RequireRole restricts an already-authenticated route to an allow-list
// of roles. Not signed in is 401; wrong role is 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Unauthorized(w, "not authenticated")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
