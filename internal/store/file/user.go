package file

import (
	"context"
	"errors"
	"strings"
	"time"

	"launchpad/internal/model"
	"launchpad/internal/store"
)

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readUsers()
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	if i := indexOf(users, username); i >= 0 {
		return &users[i], nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(u.Username) == "" {
		return model.User{}, errors.New("username_required")
	}

	users, err := s.readUsers()
	if err != nil {
		return model.User{}, err
	}
	if indexOf(users, u.Username) >= 0 {
		return model.User{}, store.ErrConflict
	}

	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UnixMilli()
	}
	users = append(users, u)
	if err := writeJSON(s.usersPath, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return model.User{}, err
	}
	i := indexOf(users, u.Username)
	if i < 0 {
		return model.User{}, store.ErrNotFound
	}

	u.CreatedAt = users[i].CreatedAt
	users[i] = u
	if err := writeJSON(s.usersPath, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return err
	}
	i := indexOf(users, username)
	if i < 0 {
		return store.ErrNotFound
	}
	users = append(users[:i], users[i+1:]...)
	return writeJSON(s.usersPath, users)
}

func (s *Store) readUsers() ([]model.User, error) {
	var users []model.User
	if err := s.readJSON(s.usersPath, &users, []model.User{model.DefaultAdmin()}); err != nil {
		return nil, err
	}
	return users, nil
}

func indexOf(users []model.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
