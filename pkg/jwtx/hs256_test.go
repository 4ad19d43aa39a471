package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte(strings.Repeat("k", jwtx.MinKeySize))

func newSigner(t *testing.T, issuer string) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256(testKey, issuer)
	require.NoError(t, err)
	return h
}

func TestHS256RoundTrip(t *testing.T) {
	h := newSigner(t, "backoffice")
	now := time.Now().UTC()

	token, err := h.Sign(jwtx.NewSessionClaims("01HZXSESSION", "backoffice", time.Hour, now))
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	claims, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01HZXSESSION", claims.SessionID())
	require.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestHS256RejectsShortKey(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("short"), "backoffice")
	require.Error(t, err)
}

func TestHS256Verify(t *testing.T) {
	h := newSigner(t, "backoffice")
	now := time.Now().UTC()

	other, err := jwtx.NewHS256([]byte(strings.Repeat("x", 40)), "backoffice")
	require.NoError(t, err)
	forged, err := other.Sign(jwtx.NewSessionClaims("sid", "backoffice", time.Hour, now))
	require.NoError(t, err)

	expired, err := h.Sign(jwtx.NewSessionClaims("sid", "backoffice", time.Minute, now.Add(-2*time.Hour)))
	require.NoError(t, err)

	wrongIssuer, err := newSigner(t, "someone-else").Sign(jwtx.NewSessionClaims("sid", "someone-else", time.Hour, now))
	require.NoError(t, err)

	noID, err := h.Sign(jwtx.NewSessionClaims("", "backoffice", time.Hour, now))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewSessionClaims("sid", "backoffice", time.Hour, now)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", jwtx.ErrMalformed},
		{"other key", forged, jwtx.ErrInvalidSig},
		{"expired", expired, jwtx.ErrExpired},
		{"wrong issuer", wrongIssuer, jwtx.ErrIssuer},
		{"missing session id", noID, jwtx.ErrMalformed},
		{"alg none", unsigned, jwtx.ErrInvalidSig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Verify(tt.token)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewSessionClaims("sid", "", time.Minute, now)

	require.NoError(t, c.ValidateExpiryWithLeeway(now.Add(70*time.Second), 30*time.Second))
	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now.Add(2*time.Minute), 30*time.Second), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now.Add(-time.Minute), 0), jwtx.ErrNotYetValid)
	require.NoError(t, c.ValidateIssuer(""))
}
