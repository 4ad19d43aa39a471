package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a browser session stays valid without
// being touched.
const DefaultSessionTTL = 12 * time.Hour

// Claims are carried in the session cookie. The token only names the
// server-side session; everything else about the session lives in the
// database.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for session sid valid for ttl from now.
func NewSessionClaims(sid, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// SessionID returns the session the token refers to.
func (c *Claims) SessionID() string { return c.ID }

// ValidateIssuer checks the issuer; an empty expectation accepts anything.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp and nbf against now, allowing for
// clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
