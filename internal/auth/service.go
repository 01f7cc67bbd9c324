// Package auth implements login, session verification and the concurrent
// login policy.
//
// A user who is neither an admin nor flagged allowConcurrent may hold one
// live session per address: a login from a different IP is refused while
// the existing session has been active within the site's session timeout.
// The timeout is evaluated only at login time. Verify never expires a
// session; a token stays valid until logout, kick, or a newer login for the
// same user replaces it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"launchpad/internal/model"
	"launchpad/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const maxTokenAttempts = 3

type LoginResult struct {
	Token    string     `json:"token"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

type Service struct {
	users      store.UserStore
	config     store.ConfigStore
	table      *Table
	tokens     TokenIssuer
	log        *slog.Logger
	now        func() time.Time
	bcryptCost int
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTokenIssuer(ti TokenIssuer) Option {
	return func(s *Service) { s.tokens = ti }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithBcryptCost sets the cost for newly hashed passwords. Values outside
// bcrypt's range fall back to bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func NewService(users store.UserStore, config store.ConfigStore, opts ...Option) *Service {
	s := &Service{
		users:      users,
		config:     config,
		table:      NewTable(),
		tokens:     OpaqueIssuer{},
		log:        slog.Default(),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials, applies the concurrent login policy and
// opens a new session for username, replacing any previous one.
func (s *Service) Login(ctx context.Context, username, password, clientIP string) (LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	ok, upgrade := checkPassword(user.Password, password)
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("load config: %w", err)
	}
	window := cfg.SessionWindow()
	exempt := user.Exempt()

	var sess model.Session
	for attempt := 0; ; attempt++ {
		token, err := s.tokens.Issue(username)
		if err != nil {
			return LoginResult{}, fmt.Errorf("issue token: %w", err)
		}
		now := s.now()
		sess = model.Session{Token: token, IP: clientIP, LastActive: now}

		err = s.table.Claim(username, sess, func(existing *model.Session) error {
			if exempt || existing == nil {
				return nil
			}
			if now.Sub(existing.LastActive) < window && existing.IP != clientIP {
				return &ConcurrentLoginError{IP: existing.IP}
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, errTokenInUse) || attempt+1 >= maxTokenAttempts {
			if errors.Is(err, ErrConcurrentLogin) {
				s.log.WarnContext(ctx, "concurrent login blocked", "username", username, "ip", clientIP, "error", err)
			}
			return LoginResult{}, err
		}
	}

	if upgrade {
		s.upgradePassword(ctx, user.Username, password)
	}

	s.log.InfoContext(ctx, "login", "username", username, "ip", clientIP, "role", user.Role)
	return LoginResult{Token: sess.Token, Username: user.Username, Role: user.Role}, nil
}

// upgradePassword replaces a plaintext stored password with its hash, unless
// the record changed since it was checked. The login has already succeeded,
// so failures are only logged.
func (s *Service) upgradePassword(ctx context.Context, username, plaintext string) {
	hash, err := hashPassword(plaintext, s.bcryptCost)
	if err != nil {
		s.log.WarnContext(ctx, "password upgrade failed", "username", username, "error", err)
		return
	}

	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil || u.Password != plaintext {
		return
	}
	u.Password = hash
	if _, err := s.users.UpdateUser(ctx, *u); err != nil {
		s.log.WarnContext(ctx, "password upgrade failed", "username", username, "error", err)
	}
}

// Logout ends username's session if there is one.
func (s *Service) Logout(username string) {
	if s.table.Delete(username) {
		s.log.Info("logout", "username", username)
	}
}

// Verify resolves token to its owner and records activity on the session.
// Signed tokens are checked before the table is consulted, and must name the
// session's owner.
func (s *Service) Verify(token string) (string, error) {
	var subject string
	if j, ok := s.tokens.(*JWTIssuer); ok {
		sub, err := j.Subject(token)
		if err != nil {
			return "", ErrUnauthorized
		}
		subject = sub
	}

	username, ok := s.table.Touch(token, s.now())
	if !ok {
		return "", ErrUnauthorized
	}
	if subject != "" && subject != username {
		return "", ErrUnauthorized
	}
	return username, nil
}

// ResetSession kicks username and reports whether a session was removed.
func (s *Service) ResetSession(username string) bool {
	removed := s.table.Delete(username)
	if removed {
		s.log.Info("session reset", "username", username)
	}
	return removed
}

func (s *Service) ToggleConcurrentExemption(ctx context.Context, username string, allow bool) error {
	if username == model.AdminUsername {
		return ErrImmutableAccount
	}

	u, err := s.getUser(ctx, username)
	if err != nil {
		return err
	}
	u.AllowConcurrent = allow
	if _, err := s.users.UpdateUser(ctx, *u); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return u, nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrUserExists
	default:
		return err
	}
}
