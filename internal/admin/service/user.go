package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
)

// UserService is the record store for users. Lookups by a unique key fail
// with *NotFoundError, existence checks never do, and every failed write
// comes back as *PersistenceError.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	return u, lookupError("id", id, err)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	return u, lookupError("email", email, err)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	return u, lookupError("username", username, err)
}

func (s *UserService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return s.Store.Users().UserExistsByID(ctx, id)
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.Store.Users().UserExistsByEmail(ctx, email)
}

func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.Store.Users().UserExistsByUsername(ctx, username)
}

// GetAll lists every user with its level title. An empty table yields an
// empty, non-nil slice.
func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetBlankEntity returns the zero user used to fill a "new user" form.
func (s *UserService) GetBlankEntity() domain.User {
	return domain.User{}
}

// Create inserts u and returns its new id.
func (s *UserService) Create(ctx context.Context, u domain.User) (int64, error) {
	id, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		return 0, persistenceError("create", err)
	}
	return id, nil
}

// Update overwrites the profile fields of an existing user.
func (s *UserService) Update(ctx context.Context, u domain.User) error {
	err := s.Store.Users().UpdateUser(ctx, u)
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Field: "id", Value: u.ID}
	}
	if err != nil {
		return persistenceError("update", err)
	}
	return nil
}

// DeleteByID removes the user with id and reports how many rows went.
func (s *UserService) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := s.Store.Users().DeleteUserByID(ctx, id)
	if err != nil {
		return 0, persistenceError("delete", err)
	}
	return n, nil
}

// DeleteByEmail removes the user with email and reports how many rows went.
func (s *UserService) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	n, err := s.Store.Users().DeleteUserByEmail(ctx, email)
	if err != nil {
		return 0, persistenceError("delete", err)
	}
	return n, nil
}

// UserInput is the submitted user form.
type UserInput struct {
	ID          int64  `form:"user_id" validate:"gte=0"`
	Email       string `form:"email" validate:"required,email,max=254"`
	Username    string `form:"username" validate:"required,alphanum,min=2,max=64"`
	FirstName   string `form:"firstname" validate:"required,max=100"`
	LastName    string `form:"lastname" validate:"required,max=100"`
	UserLevelID int64  `form:"user_level_id" validate:"gte=0"`
	CompanyID   int64  `form:"company_id" validate:"gte=0"`
	Password    string `form:"password" validate:"omitempty,min=8"`
}

// IsNew reports whether the form creates a user rather than editing one.
func (in UserInput) IsNew() bool { return in.ID == 0 }

// Entity returns the user as the form describes it, for re-rendering.
func (in UserInput) Entity() domain.User {
	return domain.User{
		ID:          in.ID,
		Email:       in.Email,
		Username:    in.Username,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		UserLevelID: in.UserLevelID,
		CompanyID:   in.CompanyID,
	}
}

func (in *UserInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

// Validate checks the form without touching the store. A password is
// required when creating and optional when editing.
func (in UserInput) Validate() error {
	in.normalize()
	err := validateStruct(in)

	if in.IsNew() && in.Password == "" {
		var ve *ValidationError
		if err == nil {
			ve = &ValidationError{Fields: map[string]string{}}
			err = ve
		} else if !errors.As(err, &ve) {
			return err
		}
		ve.Fields["password"] = "is required"
	}
	return err
}

// Save validates in, then creates or updates the user and reads it back in
// one transaction.
func (s *UserService) Save(ctx context.Context, in UserInput) (domain.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}

	var hash string
	if in.Password != "" {
		var err error
		if hash, err = cryptox.HashPassword(in.Password); err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
	}

	var saved domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.UserLevelID != 0 {
			_, err := tx.UserLevels().GetUserLevelByID(ctx, in.UserLevelID)
			if errors.Is(err, store.ErrNotFound) {
				return &ValidationError{Fields: map[string]string{"user_level_id": "does not exist"}}
			}
			if err != nil {
				return fmt.Errorf("get user level: %w", err)
			}
		}

		u := in.Entity()
		id := in.ID
		if in.IsNew() {
			u.PasswordHash = hash
			newID, err := tx.Users().CreateUser(ctx, u)
			if err != nil {
				return persistenceError("create", err)
			}
			id = newID
		} else {
			err := tx.Users().UpdateUser(ctx, u)
			if errors.Is(err, store.ErrNotFound) {
				return &NotFoundError{Field: "id", Value: in.ID}
			}
			if err != nil {
				return persistenceError("update", err)
			}
			if hash != "" {
				if err := tx.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
					return persistenceError("update", err)
				}
			}
		}

		var err error
		saved, err = tx.Users().GetUserByID(ctx, id)
		if err != nil {
			return fmt.Errorf("read back user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return saved, nil
}

func lookupError(field string, value any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Field: field, Value: value}
	}
	return fmt.Errorf("get user by %s: %w", field, err)
}
