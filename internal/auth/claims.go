package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianvest/platform/internal/model"
)

// Claims are the JWT claims minted for both access and refresh tokens. The
// sanitized user projection travels inside the token, so protected handlers
// can serve identity data without a store round-trip.
type Claims struct {
	jwt.RegisteredClaims
	User *model.SafeUser `json:"user,omitempty"`
}

// UserID returns the subject, falling back to the embedded projection.
func (c *Claims) UserID() string {
	if c.RegisteredClaims.Subject != "" {
		return c.RegisteredClaims.Subject
	}
	if c.User != nil {
		return c.User.ID
	}
	return ""
}

// Email returns the embedded projection's email, if any.
func (c *Claims) Email() string {
	if c.User == nil {
		return ""
	}
	return c.User.Email
}

// Expires returns the expiration time, zero when the token never expires
// (refresh tokens carry no exp claim).
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
