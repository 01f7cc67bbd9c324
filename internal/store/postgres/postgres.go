package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"launchpad/internal/model"
	"launchpad/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
create table if not exists launchpad_users (
	username         text primary key,
	password         text not null,
	role             text not null default 'user',
	allow_concurrent boolean not null default false,
	created_at       bigint not null
);

create table if not exists launchpad_config (
	id   smallint primary key default 1 check (id = 1),
	data jsonb not null
);
`

type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects, applies the schema and seeds the default admin account
// when the users table is empty.
func NewStore(databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Ping to fail fast.
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	admin := model.DefaultAdmin()
	_, err := s.pool.Exec(ctx, `
		insert into launchpad_users (username, password, role, allow_concurrent, created_at)
		select $1, $2, $3, false, $4
		where not exists (select 1 from launchpad_users)
	`, admin.Username, admin.Password, string(admin.Role), admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// GetConfig returns the stored site configuration, or the default one when
// nothing has been saved yet.
func (s *Store) GetConfig(ctx context.Context) (model.SiteConfig, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `select data from launchpad_config where id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DefaultSiteConfig(), nil
		}
		return model.SiteConfig{}, mapPgErr(err)
	}

	var cfg model.SiteConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return model.SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, c model.SiteConfig) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		insert into launchpad_config (id, data) values (1, $1::jsonb)
		on conflict (id) do update set data = excluded.data
	`, string(raw))
	return mapPgErr(err)
}

func mapPgErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrConflict
		case "23503":
			return store.ErrNotFound
		default:
			return fmt.Errorf("db_error %s: %s", pgErr.Code, pgErr.Message)
		}
	}
	return err
}
