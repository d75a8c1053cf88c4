// Package sessions resolves the session cookie of a request to a user id.
package sessions

import (
	"errors"
	"net/http"
	"time"
)

// ErrSessionNotFound is returned for unknown, expired or tampered session tokens.
var ErrSessionNotFound = errors.New("session not found")

// Cookie writes and reads the session cookie.
type Cookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// NewCookie creates a Cookie with the given options.
func NewCookie(opts ...CookieOption) *Cookie {
	c := &Cookie{Name: "session_id", TTL: 24 * time.Hour}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type CookieOption func(*Cookie)

func WithCookieName(name string) CookieOption {
	return func(c *Cookie) {
		if name != "" {
			c.Name = name
		}
	}
}

func WithCookieTTL(ttl time.Duration) CookieOption {
	return func(c *Cookie) {
		if ttl > 0 {
			c.TTL = ttl
		}
	}
}

func WithCookieSecure(secure bool) CookieOption {
	return func(c *Cookie) {
		c.Secure = secure
	}
}

// Write sets the session cookie to token.
func (c *Cookie) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (c *Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetTokenFromRequest extracts the session token from the request cookie.
func (c *Cookie) GetTokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", ErrSessionNotFound
	}
	return cookie.Value, nil
}
