package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("bootstrap requires both an email and a password")

// BootstrapService seeds the first administrator so a fresh database can
// be logged into.
type BootstrapService struct {
	Store store.Store
}

type BootstrapAdmin struct {
	Email    string
	Password string
}

// EnsureAdmin creates the Administrator level and an admin user when the
// user table is empty. It reports whether anything was created; an already
// populated table is left alone.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	log := slogx.FromContext(ctx)

	if admin.Email == "" && admin.Password == "" {
		return false, nil
	}
	if admin.Email == "" || admin.Password == "" {
		return false, ErrBootstrapIncomplete
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	if !empty {
		log.Debug("users present, skipping admin bootstrap")
		return false, nil
	}

	in := UserInput{
		Email:     admin.Email,
		Username:  usernameFromEmail(admin.Email),
		FirstName: "Site",
		LastName:  "Administrator",
		Password:  admin.Password,
	}
	if err := in.Validate(); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := cryptox.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	var userID int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		levelID, err := levelIDByTitle(ctx, tx, domain.AdministratorLevel)
		if err != nil {
			return err
		}

		u := in.Entity()
		u.UserLevelID = levelID
		u.PasswordHash = hash
		userID, err = tx.Users().CreateUser(ctx, u)
		if err != nil {
			return persistenceError("create", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("bootstrapped administrator", "user_id", userID, "email", admin.Email)
	return true, nil
}

func levelIDByTitle(ctx context.Context, tx store.Tx, title string) (int64, error) {
	level, err := tx.UserLevels().GetUserLevelByTitle(ctx, title)
	if err == nil {
		return level.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("get user level %q: %w", title, err)
	}

	id, err := tx.UserLevels().CreateUserLevel(ctx, title)
	if err != nil {
		return 0, fmt.Errorf("create user level %q: %w", title, err)
	}
	return id, nil
}

// usernameFromEmail keeps the letters and digits of the local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, local)
	if len(name) < 2 {
		return "admin"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
