package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPepper_CreatesThenReuses(t *testing.T) {
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "backoffice-test-pepper")) })

	path := filepath.Join(t.TempDir(), "nested", "pepper")
	SetPepperPath(path)
	require.NoError(t, LoadPepper())

	first := currentPepper()
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	SetPepperPath(path)
	require.NoError(t, LoadPepper())
	require.Equal(t, first, currentPepper())
}

func TestLoadPepper_EmptyFile(t *testing.T) {
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "backoffice-test-pepper")) })

	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	SetPepperPath(path)
	require.Error(t, LoadPepper())
}

func TestPepperChangesHash(t *testing.T) {
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "backoffice-test-pepper")) })

	dir := t.TempDir()
	SetPepperPath(filepath.Join(dir, "a"))
	hash, err := HashPassword("secret-value")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword("secret-value", hash))

	SetPepperPath(filepath.Join(dir, "b"))
	require.ErrorIs(t, VerifyPassword("secret-value", hash), ErrPasswordMismatch)
}
