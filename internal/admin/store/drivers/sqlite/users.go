package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
)

// userColumn is a column users can be looked up, counted or deleted by.
// Only the constants below exist, so no caller text reaches the SQL.
type userColumn string

const (
	colID       userColumn = "id"
	colEmail    userColumn = "email"
	colUsername userColumn = "username"
)

const selectUser = `
SELECT u.id, u.email, u.username, u.firstname, u.lastname, u.password,
       u.user_level_id, COALESCE(l.title, ''), u.company_id,
       u.created_at, u.updated_at
FROM "user" u
LEFT JOIN user_level l ON l.id = u.user_level_id`

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return r.findOneWhere(ctx, colID, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOneWhere(ctx, colEmail, email)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOneWhere(ctx, colUsername, username)
}

func (r *usersRepo) UserExistsByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.countWhere(ctx, colID, id)
	return n > 0, err
}

func (r *usersRepo) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.countWhere(ctx, colEmail, email)
	return n > 0, err
}

func (r *usersRepo) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.countWhere(ctx, colUsername, username)
	return n > 0, err
}

func (r *usersRepo) DeleteUserByID(ctx context.Context, id int64) (int64, error) {
	return r.deleteWhere(ctx, colID, id)
}

func (r *usersRepo) DeleteUserByEmail(ctx context.Context, email string) (int64, error) {
	return r.deleteWhere(ctx, colEmail, email)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	now := time.Now().Unix()
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO "user" (email, username, firstname, lastname, password, user_level_id, company_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
		nullInt64(u.UserLevelID), u.CompanyID, now, now,
	).Scan(&id)
	if err != nil {
		return 0, mapConflict(err)
	}
	return id, nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE "user"
SET email = ?, username = ?, firstname = ?, lastname = ?,
    user_level_id = ?, company_id = ?, updated_at = ?
WHERE id = ?`,
		u.Email, u.Username, u.FirstName, u.LastName,
		nullInt64(u.UserLevelID), u.CompanyID, time.Now().Unix(), u.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE "user" SET password = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().Unix(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *usersRepo) findOneWhere(ctx context.Context, col userColumn, v any) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE u.`+string(col)+` = ?`, v)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) countWhere(ctx context.Context, col userColumn, v any) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "user" WHERE `+string(col)+` = ?`, v).Scan(&n)
	return n, err
}

func (r *usersRepo) deleteWhere(ctx context.Context, col userColumn, v any) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM "user" WHERE `+string(col)+` = ?`, v)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                    domain.User
		levelID              sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash,
		&levelID, &u.UserLevelTitle, &u.CompanyID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.UserLevelID = levelID.Int64
	u.CreatedAt = unixTime(createdAt)
	u.UpdatedAt = unixTime(updatedAt)
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
