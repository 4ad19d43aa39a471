package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "backoffice-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	code := m.Run()
	os.Remove(pepperPath)

	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Contains(t, parts[3], "m=19456")
			require.Contains(t, parts[3], "t=2")
			require.Contains(t, parts[3], "p=1")

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("samepassword")
	require.NoError(t, err)
	hash2, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, VerifyPassword("samepassword", hash1))
	require.NoError(t, VerifyPassword("samepassword", hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		err := VerifyPassword(wrong, hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2y$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("test-password", tt.invalidHash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	// The old PHP back-office wrote $2y$ hashes.
	phpStyle := "$2y$" + strings.TrimPrefix(string(raw), "$2a$")

	for _, hash := range []string{string(raw), phpStyle} {
		require.True(t, IsLegacyHash(hash))
		require.NoError(t, VerifyPassword("legacy-secret", hash))
		require.ErrorIs(t, VerifyPassword("nope", hash), ErrPasswordMismatch)
	}
}

func TestIsLegacyHash(t *testing.T) {
	argon, err := HashPassword("x")
	require.NoError(t, err)

	require.False(t, IsLegacyHash(argon))
	require.False(t, IsLegacyHash(""))
	require.False(t, IsLegacyHash("$2x$10$abc"))
	require.True(t, IsLegacyHash("$2b$10$abc"))
}
