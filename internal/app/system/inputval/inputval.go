// internal/app/system/inputval/inputval.go

// Package inputval validates user-supplied field values. Each validator
// answers a single yes/no question; handlers assemble them into the
// request-level checks.
package inputval

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field length bounds, matching the document schema.
const (
	MinUsernameLen    = 3
	MaxUsernameLen    = 30
	MinPasswordLen    = 6
	MaxTitleLen       = 100
	MaxDescriptionLen = 2000
	MaxLocationLen    = 200
	MaxParticipants   = 1000
	MaxCancelReason   = 500
	MaxCommentLen     = 1000
	MinRating         = 1
	MaxRating         = 5
)

// IsValidEmail reports whether s parses as a bare RFC 5322 address
// (display-name forms are rejected).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts "Name <a@b>"; require the bare form.
	return addr.Address == s
}

// IsValidUsername reports whether s is within the username length bounds.
func IsValidUsername(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= MinUsernameLen && n <= MaxUsernameLen
}

// IsValidPassword reports whether s meets the minimum password length.
func IsValidPassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLen
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL. Used for
// image lists on activities and comments.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// WithinLen reports whether s is non-empty after trimming and at most max
// runes long.
func WithinLen(s string, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n > 0 && n <= max
}

// WithinLenOrEmpty reports whether s is at most max runes long, allowing
// the empty string.
func WithinLenOrEmpty(s string, max int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= max
}

// IsValidRating reports whether r is an allowed star rating.
func IsValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
