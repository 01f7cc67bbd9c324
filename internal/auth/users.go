package auth

import (
	"context"
	"errors"
	"strings"

	"launchpad/internal/model"
	"launchpad/internal/store"
)

// UserView is a user record as shown to administrators.
type UserView struct {
	Username        string     `json:"username"`
	Role            model.Role `json:"role"`
	AllowConcurrent bool       `json:"allowConcurrent"`
	CreatedAt       int64      `json:"createdAt"`
	IsOnline        bool       `json:"isOnline"`
}

func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, UserView{
			Username:        u.Username,
			Role:            u.Role,
			AllowConcurrent: u.AllowConcurrent,
			CreatedAt:       u.CreatedAt,
			IsOnline:        s.table.Online(u.Username),
		})
	}
	return out, nil
}

// Role returns the current role of username.
func (s *Service) Role(ctx context.Context, username string) (model.Role, error) {
	u, err := s.getUser(ctx, username)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) AddUser(ctx context.Context, username, password string, role model.Role, allowConcurrent bool) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidInput
	}
	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.users.CreateUser(ctx, model.User{
		Username:        username,
		Password:        hash,
		Role:            role,
		AllowConcurrent: allowConcurrent,
		CreatedAt:       s.now().UnixMilli(),
	})
	if err != nil {
		return mapStoreErr(err)
	}
	s.log.InfoContext(ctx, "user added", "username", username, "role", role)
	return nil
}

// DeleteUser removes the account and its session. Deleting an unknown user
// is not an error.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if username == model.AdminUsername {
		return ErrImmutableAccount
	}
	if err := s.users.DeleteUser(ctx, username); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.table.Delete(username)
	s.log.InfoContext(ctx, "user deleted", "username", username)
	return nil
}

// ChangePassword stores a new password for username. Its session, if any, is
// left in place.
func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	u, err := s.getUser(ctx, username)
	if err != nil {
		return err
	}

	hash, err := hashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	u.Password = hash
	if _, err := s.users.UpdateUser(ctx, *u); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// EnsureDefaultAdmin creates the admin account when the credential store
// does not have one.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	_, err := s.users.GetUserByUsername(ctx, model.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	admin := model.DefaultAdmin()
	hash, err := hashPassword(admin.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin.Password = hash
	if _, err := s.users.CreateUser(ctx, admin); err != nil && !errors.Is(err, store.ErrConflict) {
		return err
	}
	s.log.WarnContext(ctx, "created default admin account, change its password", "username", admin.Username)
	return nil
}
