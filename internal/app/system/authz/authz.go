// internal/app/system/authz/authz.go

// Package authz answers capability questions about the current request.
// Each check takes the actor (from the request context) and the resource
// it targets, and is evaluated once at the top of a handler before any
// write happens.
package authz

import (
	"net/http"
	"strings"

	"github.com/unimove/unimove/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), username, ObjectID, and
// a found flag. ok=true guarantees a valid, authenticated user with a
// well-formed ObjectID; anything else comes back as an anonymous visitor.
func UserCtx(r *http.Request) (role string, username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in a verified token - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Username, userID, true
}

// CanManageActivity reports whether the caller may update or delete an
// activity owned by organizerID. Organizer and admin only.
func CanManageActivity(r *http.Request, organizerID primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "admin" || uid == organizerID
}

// CanViewOrder reports whether the caller may read an order belonging to
// ownerID. Owner and admin only.
func CanViewOrder(r *http.Request, ownerID primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "admin" || uid == ownerID
}

// CanActOnOrder reports whether the caller may pay or cancel an order
// belonging to ownerID. Owner only; admins do not transact on behalf of
// users.
func CanActOnOrder(r *http.Request, ownerID primitive.ObjectID) bool {
	_, _, uid, ok := UserCtx(r)
	return ok && uid == ownerID
}

// CanViewActivityOrders reports whether the caller may list the orders of
// an activity owned by organizerID. Organizer and admin only.
func CanViewActivityOrders(r *http.Request, organizerID primitive.ObjectID) bool {
	return CanManageActivity(r, organizerID)
}

// CanEditComment reports whether the caller may edit a comment authored
// by authorID. Author only.
func CanEditComment(r *http.Request, authorID primitive.ObjectID) bool {
	_, _, uid, ok := UserCtx(r)
	return ok && uid == authorID
}

// CanDeleteComment reports whether the caller may delete a comment
// authored by authorID. Author and admin.
func CanDeleteComment(r *http.Request, authorID primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "admin" || uid == authorID
}
