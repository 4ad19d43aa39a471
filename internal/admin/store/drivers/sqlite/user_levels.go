package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
)

type userLevelsRepo struct {
	db DBTX
}

func (r *userLevelsRepo) ListUserLevels(ctx context.Context) ([]domain.UserLevel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, created_at FROM user_level ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]domain.UserLevel, 0)
	for rows.Next() {
		l, err := scanUserLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *userLevelsRepo) GetUserLevelByID(ctx context.Context, id int64) (domain.UserLevel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM user_level WHERE id = ?`, id)
	l, err := scanUserLevel(row)
	if err != nil {
		return domain.UserLevel{}, mapNotFound(err)
	}
	return l, nil
}

func (r *userLevelsRepo) GetUserLevelByTitle(ctx context.Context, title string) (domain.UserLevel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM user_level WHERE title = ?`, title)
	l, err := scanUserLevel(row)
	if err != nil {
		return domain.UserLevel{}, mapNotFound(err)
	}
	return l, nil
}

func (r *userLevelsRepo) CreateUserLevel(ctx context.Context, title string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO user_level (title, created_at) VALUES (?, ?) RETURNING id`,
		title, time.Now().Unix(),
	).Scan(&id)
	if err != nil {
		return 0, mapConflict(err)
	}
	return id, nil
}

func scanUserLevel(row rowScanner) (domain.UserLevel, error) {
	var (
		l         domain.UserLevel
		createdAt int64
	)
	if err := row.Scan(&l.ID, &l.Title, &createdAt); err != nil {
		return domain.UserLevel{}, err
	}
	l.CreatedAt = unixTime(createdAt)
	return l, nil
}
