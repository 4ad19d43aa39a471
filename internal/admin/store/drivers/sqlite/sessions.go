package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
)

type sessionsRepo struct {
	db DBTX
}

func (r *sessionsRepo) SaveSession(ctx context.Context, s domain.StoredSession) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, data, created_at, expires_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    user_id    = excluded.user_id,
    data       = excluded.data,
    expires_at = excluded.expires_at`,
		s.Key, nullInt64(s.UserID), string(data), s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	return err
}

func (r *sessionsRepo) GetSession(ctx context.Context, key string) (domain.StoredSession, error) {
	var (
		s                    domain.StoredSession
		userID               *int64
		data                 string
		createdAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, data, created_at, expires_at
FROM sessions
WHERE id = ? AND expires_at > ?`,
		key, time.Now().Unix(),
	).Scan(&s.Key, &userID, &data, &createdAt, &expiresAt)
	if err != nil {
		return domain.StoredSession{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return domain.StoredSession{}, fmt.Errorf("decode session data: %w", err)
	}
	if userID != nil {
		s.UserID = *userID
	}
	s.CreatedAt = unixTime(createdAt)
	s.ExpiresAt = unixTime(expiresAt)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, key)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
