package store

import (
	"context"
	"errors"

	"launchpad/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// UserStore is the credential store. Implementations must not cache: every
// call reflects the latest persisted state.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, username string) error
}

type ConfigStore interface {
	GetConfig(ctx context.Context) (model.SiteConfig, error)
	SaveConfig(ctx context.Context, c model.SiteConfig) error
}

type Store interface {
	UserStore
	ConfigStore
}
