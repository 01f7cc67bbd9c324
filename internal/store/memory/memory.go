package memory

import (
	"context"
	"sync"

	"launchpad/internal/model"
)

type Store struct {
	mu sync.Mutex

	users  []model.User
	config model.SiteConfig
}

// NewStore returns a store seeded with the default admin account and the
// default site configuration.
func NewStore() *Store {
	return &Store{
		users:  []model.User{model.DefaultAdmin()},
		config: model.DefaultSiteConfig(),
	}
}

func (s *Store) GetConfig(_ context.Context) (model.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config.Clone(), nil
}

func (s *Store) SaveConfig(_ context.Context, c model.SiteConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = c.Clone()
	return nil
}
