package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv hides variables from the host environment; viper treats empty
// values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATA_DIR", "DATABASE_URL", "LAUNCHPAD_PORT", "LAUNCHPAD_DATA_DIR", "LAUNCHPAD_DATABASE_URL", "LAUNCHPAD_STORAGE", "LAUNCHPAD_CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.True(t, cfg.TrustForwardedFor)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "opaque", cfg.Auth.TokenFormat)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LAUNCHPAD_CORS_ORIGINS", "http://nas.lan,http://10.0.0.2:3000")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://nas.lan", "http://10.0.0.2:3000"}, cfg.CORSOrigins)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("LAUNCHPAD_PORT", "8081")
	t.Setenv("DATA_DIR", "/srv/launchpad")
	t.Setenv("LAUNCHPAD_LOG_FORMAT", "json")
	t.Setenv("LAUNCHPAD_AUTH_TOKEN_FORMAT", "jwt")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "/srv/launchpad", cfg.DataDir)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "jwt", cfg.Auth.TokenFormat)
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LAUNCHPAD_PORT", "9001")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
}

func TestLoad_DatabaseURLSelectsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/launchpad")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "launchpad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 4000
storage: memory
trust_forwarded_for: false
log:
  level: debug
auth:
  bcrypt_cost: 12
`), 0o644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.False(t, cfg.TrustForwardedFor)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	v := NewViper()
	v.Set("port", 70000)
	_, err := Load(v, "")
	assert.Error(t, err)

	v = NewViper()
	v.Set("storage", "s3")
	_, err = Load(v, "")
	assert.Error(t, err)

	v = NewViper()
	v.Set("storage", StoragePostgres)
	_, err = Load(v, "")
	assert.Error(t, err)

	_, err = Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
