// Package config loads process settings from defaults, an optional YAML
// file and LAUNCHPAD_* environment variables, in increasing precedence.
// The site configuration shown in the UI lives in the config store, not here.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	TokenFormat string `mapstructure:"token_format"`
	TokenSecret string `mapstructure:"token_secret"`
	BcryptCost  int    `mapstructure:"bcrypt_cost"`
}

type Config struct {
	Port              int        `mapstructure:"port"`
	DataDir           string     `mapstructure:"data_dir"`
	DatabaseURL       string     `mapstructure:"database_url"`
	Storage           string     `mapstructure:"storage"`
	StaticDir         string     `mapstructure:"static_dir"`
	TrustForwardedFor bool       `mapstructure:"trust_forwarded_for"`
	WakeBroadcast     string     `mapstructure:"wake_broadcast"`
	CORSOrigins       []string   `mapstructure:"cors_origins"`
	Log               LogConfig  `mapstructure:"log"`
	Auth              AuthConfig `mapstructure:"auth"`
}

// NewViper returns a viper instance with defaults and environment bindings.
// PORT, DATA_DIR and DATABASE_URL are honoured when the prefixed variables
// are not set.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("port", "LAUNCHPAD_PORT", "PORT")
	_ = v.BindEnv("data_dir", "LAUNCHPAD_DATA_DIR", "DATA_DIR")
	_ = v.BindEnv("database_url", "LAUNCHPAD_DATABASE_URL", "DATABASE_URL")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("database_url", "")
	v.SetDefault("storage", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("trust_forwarded_for", true)
	v.SetDefault("wake_broadcast", "255.255.255.255:9")
	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("auth.token_format", "opaque")
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.bcrypt_cost", 10)
}

// Load reads configFile when given and decodes the result.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port >= 65536 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageFile
		if cfg.DatabaseURL != "" {
			cfg.Storage = StoragePostgres
		}
	}
	switch cfg.Storage {
	case StorageFile, StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
	if cfg.Storage == StoragePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("storage %q needs database_url", cfg.Storage)
	}
	return cfg, nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}
