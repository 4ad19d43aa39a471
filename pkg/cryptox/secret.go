package cryptox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ReadOrCreateSecret returns the secret stored at path. On first start the
// file is created with size random bytes, base64url encoded, readable by
// the owner only.
func ReadOrCreateSecret(path string, size int) (string, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		s := strings.TrimSpace(string(data))
		if s == "" {
			return "", fmt.Errorf("secret file %s is empty", path)
		}
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read secret %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create secret dir: %w", err)
	}

	s, err := GenerateToken(size)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(s), 0o600); err != nil {
		return "", fmt.Errorf("write secret %s: %w", path, err)
	}
	return s, nil
}
