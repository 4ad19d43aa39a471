package service

import (
	"context"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
)

type UserLevelService struct {
	Store store.Store
}

// ListAll returns every user level ordered by title.
func (s *UserLevelService) ListAll(ctx context.Context) ([]domain.UserLevel, error) {
	return s.Store.UserLevels().ListUserLevels(ctx)
}
