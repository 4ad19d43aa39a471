package cryptox

import (
	"log/slog"
	"sync"
)

// Argon2id parameters (OWASP minimum profile).
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu   sync.RWMutex
	pepper     string
	pepperFile = "data/pepper"
)

// SetPepperPath changes where the pepper is read from and forgets any pepper
// loaded from the previous location.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// LoadPepper reads the pepper from the configured file, creating it with
// fresh random bytes on first start.
func LoadPepper() error {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	p, err := ReadOrCreateSecret(pepperFile, keyLength)
	if err != nil {
		return err
	}
	pepper = p
	return nil
}

func currentPepper() string {
	pepperMu.RLock()
	p := pepper
	pepperMu.RUnlock()
	if p != "" {
		return p
	}

	if err := LoadPepper(); err != nil {
		// Hashing without the pepper would silently produce hashes that can
		// never be verified once the file shows up.
		slog.Error("failed to load pepper", slog.Any("err", err))
		panic(err)
	}

	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
