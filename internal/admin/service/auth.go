package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

type AuthService struct {
	Store store.Store
}

// Login checks email and password against the stored user and returns the
// user on success. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials. A legacy bcrypt hash is upgraded to argon2id once
// it has been verified.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("stored password hash is unusable", "user_id", u.ID, "error", err)
		}
		return domain.User{}, ErrInvalidCredentials
	}

	if cryptox.IsLegacyHash(u.PasswordHash) {
		s.upgradeHash(ctx, &u, password)
	}

	return u, nil
}

func (s *AuthService) upgradeHash(ctx context.Context, u *domain.User, password string) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to rehash legacy password", "user_id", u.ID, "error", err)
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		log.Error("failed to store upgraded password hash", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = hash
	log.Info("upgraded legacy password hash", "user_id", u.ID)
}
