package memory

import (
	"context"
	"strings"
	"time"

	"launchpad/internal/model"
	"launchpad/internal/store"
)

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.User(nil), s.users...), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(username); i >= 0 {
		u := s.users[i]
		return &u, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(u.Username) == "" {
		return model.User{}, errWithCode("username_required")
	}
	if s.indexOf(u.Username) >= 0 {
		return model.User{}, store.ErrConflict
	}

	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UnixMilli()
	}
	s.users = append(s.users, u)
	return u, nil
}

// UpdateUser replaces the mutable fields of an existing record. CreatedAt is
// kept from the stored record.
func (s *Store) UpdateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(u.Username)
	if i < 0 {
		return model.User{}, store.ErrNotFound
	}
	u.CreatedAt = s.users[i].CreatedAt
	s.users[i] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(username)
	if i < 0 {
		return store.ErrNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// indexOf matches usernames exactly; callers hold s.mu.
func (s *Store) indexOf(username string) int {
	for i, u := range s.users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

type codeError string

func (e codeError) Error() string { return string(e) }

func errWithCode(code string) error { return codeError(code) }
