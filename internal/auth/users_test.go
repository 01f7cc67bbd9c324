package auth

import (
	"context"
	"testing"

	"launchpad/internal/model"
	"launchpad/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUser(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.AddUser(ctx, "u", "x", model.RoleUser, false), ErrUserExists)
	assert.ErrorIs(t, f.svc.AddUser(ctx, "  ", "x", model.RoleUser, false), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.AddUser(ctx, "w", "", model.RoleUser, false), ErrInvalidInput)

	require.NoError(t, f.svc.AddUser(ctx, "guest", "pw", model.Role("superuser"), false))
	u, err := f.store.GetUserByUsername(ctx, "guest")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "pw", u.Password)
	assert.Equal(t, f.clock.Now().UnixMilli(), u.CreatedAt)
}

func TestListUsers_ReportsOnlineWithoutPasswords(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "u", "p", "1.1.1.1")
	require.NoError(t, err)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byName := map[string]UserView{}
	for _, u := range users {
		byName[u.Username] = u
	}
	assert.True(t, byName["u"].IsOnline)
	assert.False(t, byName["admin"].IsOnline)
	assert.Equal(t, model.RoleAdmin, byName["admin"].Role)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, "admin"), ErrImmutableAccount)

	res, err := f.svc.Login(ctx, "u", "p", "1.1.1.1")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteUser(ctx, "u"))
	_, err = f.svc.Verify(res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.Login(ctx, "u", "p", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users are ignored.
	assert.NoError(t, f.svc.DeleteUser(ctx, "u"))
}

func TestChangePassword_KeepsSession(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "u", "p", "1.1.1.1")
	require.NoError(t, err)

	require.NoError(t, f.svc.ChangePassword(ctx, "u", "p2"))
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "ghost", "x"), ErrUserNotFound)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "u", ""), ErrInvalidInput)

	_, err = f.svc.Verify(res.Token)
	assert.NoError(t, err)

	_, err = f.svc.Login(ctx, "u", "p", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "u", "p2", "1.1.1.1")
	assert.NoError(t, err)
}

func TestRole(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	role, err := f.svc.Role(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	_, err = f.svc.Role(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	svc := NewService(st, st, WithBcryptCost(4))

	require.NoError(t, st.DeleteUser(ctx, "admin"))
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := st.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, isBcryptHash(admin.Password))

	// Existing admin is left alone.
	require.NoError(t, svc.ChangePassword(ctx, "admin", "changed"))
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	_, err = svc.Login(ctx, "admin", "changed", "1.1.1.1")
	assert.NoError(t, err)
}
