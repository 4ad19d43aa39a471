package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the shortest HMAC secret we accept, in bytes.
const MinKeySize = 32

// Signer is anything that can sign session claims.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256 signs and verifies session tokens with a shared secret. The same
// process both issues and checks the cookie, so a symmetric key is enough.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 returns an HS256 signer/verifier for issuer.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) < MinKeySize {
		return nil, errors.New("jwtx: HS256 key must be at least 32 bytes")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &HS256{key: k, issuer: issuer}, nil
}

func (h *HS256) Alg() string    { return jwt.SigningMethodHS256.Alg() }
func (h *HS256) Issuer() string { return h.issuer }

// Sign returns the compact JWS for claims.
func (h *HS256) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
}
