package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
)

// InitSessionKeys loads the cookie signing key from cfg.SessionKeyFile,
// generating it on first start. Restarting with the same file keeps
// existing logins valid; deleting it logs everyone out.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.HS256, error) {
	secret, err := cryptox.ReadOrCreateSecret(cfg.SessionKeyFile, cryptox.TokenSize256)
	if err != nil {
		return nil, fmt.Errorf("failed to load session key: %w", err)
	}

	signer, err := jwtx.NewHS256([]byte(secret), cfg.SessionIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}

	logger.Info("session signing key loaded", "path", cfg.SessionKeyFile, "alg", signer.Alg())
	return signer, nil
}
