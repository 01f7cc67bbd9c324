package postgres

import (
	"context"
	"os"
	"testing"

	"launchpad/internal/model"
	"launchpad/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new PostgreSQL store on a clean schema.
// It skips tests if DATABASE_URL is not set.
func setupTestDB(t *testing.T) *Store {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL tests")
	}

	s, err := NewStore(databaseURL)
	require.NoError(t, err)

	_, err = s.pool.Exec(context.Background(), `drop table if exists launchpad_users, launchpad_config`)
	require.NoError(t, err)
	require.NoError(t, s.migrate(context.Background()))

	t.Cleanup(s.Close)
	return s
}

func TestMigrate_SeedsAdminOnce(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.migrate(ctx))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.AdminUsername, users[0].Username)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
}

func TestUsers(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, model.User{Username: "alice", Password: "hash", Role: model.RoleUser})
	require.NoError(t, err)
	assert.NotZero(t, created.CreatedAt)

	_, err = s.CreateUser(ctx, model.User{Username: "alice", Password: "x", Role: model.RoleUser})
	assert.ErrorIs(t, err, store.ErrConflict)

	updated, err := s.UpdateUser(ctx, model.User{Username: "alice", Password: "new", Role: model.RoleUser, AllowConcurrent: true})
	require.NoError(t, err)
	assert.True(t, updated.AllowConcurrent)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Password)

	require.NoError(t, s.DeleteUser(ctx, "alice"))
	assert.ErrorIs(t, s.DeleteUser(ctx, "alice"), store.ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfig(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	cfg, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSiteConfig(), cfg)

	want := model.SiteConfig{SiteTitle: "Lab", BaseURL: "10.0.0.2", SessionTimeout: 10, Links: []model.NavLink{{ID: "1", Name: "Grafana", Port: "3000"}}}
	require.NoError(t, s.SaveConfig(ctx, want))

	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
