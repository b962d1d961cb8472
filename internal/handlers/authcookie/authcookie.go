// Package authcookie reads and writes session tokens carried by the request.
//
// Tokens are delivered both in the response body and as http-only cookies,
// so browser and non-browser clients are served by the same endpoints.
package authcookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/vnitin08/youtube-backend/internal/models"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

// Set both session cookies; cookie lives as long as its token
func Set(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, newCookie(AccessToken, pair.Access.Value, pair.Access.ExpiresAt))
	http.SetCookie(w, newCookie(RefreshToken, pair.Refresh.Value, pair.Refresh.ExpiresAt))
}

// Ask client to drop both session cookies
func Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessToken, RefreshToken} {
		c := newCookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// Access token from cookie or 'Authorization: Bearer <token>' header
// Cookie takes precedence; empty string if there is none
func Access(r *http.Request) string {
	if c, err := r.Cookie(AccessToken); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Refresh token from cookie; empty string if there is none
func Refresh(r *http.Request) string {
	if c, err := r.Cookie(RefreshToken); err == nil {
		return c.Value
	}
	return ""
}

func newCookie(name string, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if !expires.IsZero() {
		c.MaxAge = max(int(time.Until(expires).Seconds()), 1)
	}
	return c
}
