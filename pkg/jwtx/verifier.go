package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a token and returns its claims if it is legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// DefaultLeeway absorbs small clock differences between replicas.
const DefaultLeeway = 30 * time.Second

// Verify parses token, checks the HS256 signature and validates issuer and
// lifetime.
func (h *HS256) Verify(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Lifetime is checked below so the error maps onto our sentinels.
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if claims.ID == "" {
		return Claims{}, fmt.Errorf("%w: missing session id", ErrMalformed)
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(time.Now().UTC(), DefaultLeeway); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
