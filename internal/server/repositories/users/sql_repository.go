package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/dbx"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/google/uuid"
)

// timeNow and newID are seams for tests.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)

const userColumns = `id, name, username, email, photo_url, is_admin, password_hash, created_at, updated_at`

// SQLRepository implements Repository on database/sql. Queries are written
// with '?' placeholders and rebound for the configured dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.DialectPostgres}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.DialectSQLite}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := timeNow().UTC()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	query :=
		`INSERT INTO users (id, name, username, email, photo_url, is_admin, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		user.ID, user.Name, user.UserName, user.Email, nullString(user.PhotoURL),
		user.IsAdmin, user.PasswordHash, now, now)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return user, nil
}

func (r *SQLRepository) FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error) {
	var conds []string
	var args []any

	if filter.ID != "" && r.validID(filter.ID) {
		conds = append(conds, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		conds = append(conds, "email = ?")
		args = append(args, filter.Email)
	}
	if filter.UserName != "" {
		conds = append(conds, "username = ?")
		args = append(args, filter.UserName)
	}
	if len(conds) == 0 {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conds, " OR ") + ` LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	if !r.validID(id) {
		return common.ErrorNotFound
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.UserName != nil {
		add("username", *upd.UserName)
	}
	if upd.PhotoURL != nil {
		add("photo_url", nullString(*upd.PhotoURL))
	}
	if upd.IsAdmin != nil {
		add("is_admin", *upd.IsAdmin)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	add("updated_at", timeNow().UTC())
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return wrapDBError(err)
	}

	return expectAffected(res)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if !r.validID(id) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectAffected(res)
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// validID filters ids Postgres would reject with a cast error instead of
// simply not matching.
func (r *SQLRepository) validID(id string) bool {
	if r.dialect != dbx.DialectPostgres {
		return true
	}
	return uuid.Validate(id) == nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	var photo sql.NullString
	err := s.Scan(&u.ID, &u.Name, &u.UserName, &u.Email, &photo, &u.IsAdmin, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.PhotoURL = photo.String
	return u, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
