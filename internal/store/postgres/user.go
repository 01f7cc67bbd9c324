package postgres

import (
	"context"
	"errors"
	"time"

	"launchpad/internal/model"
	"launchpad/internal/store"

	"github.com/jackc/pgx/v5"
)

const userColumns = `username, password, role, allow_concurrent, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.Username, &u.Password, &role, &u.AllowConcurrent, &u.CreatedAt)
	u.Role = model.Role(role)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `select `+userColumns+` from launchpad_users order by created_at, username`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from launchpad_users
		where username = $1
	`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UnixMilli()
	}
	out, err := scanUser(s.pool.QueryRow(ctx, `
		insert into launchpad_users (username, password, role, allow_concurrent, created_at)
		values ($1, $2, $3, $4, $5)
		returning `+userColumns,
		u.Username, u.Password, string(u.Role), u.AllowConcurrent, u.CreatedAt))
	if err != nil {
		return model.User{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	out, err := scanUser(s.pool.QueryRow(ctx, `
		update launchpad_users
		set password = $2, role = $3, allow_concurrent = $4
		where username = $1
		returning `+userColumns,
		u.Username, u.Password, string(u.Role), u.AllowConcurrent))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) DeleteUser(ctx context.Context, username string) error {
	tag, err := s.pool.Exec(ctx, `delete from launchpad_users where username = $1`, username)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
