// ABOUTME: Decodes display claims from the session token without verifying it
// ABOUTME: The backend remains the authority; claims only drive the header and expiry hints

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when the token is opaque rather than a JWT
var ErrNotJWT = errors.New("session token is not a JWT")

// Claims holds the parts of the token shown to the user
type Claims struct {
	Email     string
	ExpiresAt time.Time // zero when the token carries no exp
}

// ParseClaims extracts the email (email claim, falling back to sub) and expiry.
// The signature is not checked.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNotJWT
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, ErrNotJWT
	}

	c := &Claims{}
	if email, ok := mc["email"].(string); ok && email != "" {
		c.Email = email
	} else if sub, err := mc.GetSubject(); err == nil {
		c.Email = sub
	}

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Expired reports whether the token carries an expiry that has passed
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Email returns the signed-in user's email for display, or "" when unknown
func Email(s Store) string {
	if s == nil {
		return ""
	}
	c, err := ParseClaims(s.Token())
	if err != nil {
		return ""
	}
	return c.Email
}
