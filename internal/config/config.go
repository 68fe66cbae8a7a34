package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// ACADEMY_STORAGE_BACKEND.
const EnvPrefix = "ACADEMY"

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Config holds application configuration loaded from an optional YAML file,
// a .env file, ACADEMY_* environment variables and bound CLI flags.
type Config struct {
	Env        string           `mapstructure:"env"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Solana     SolanaConfig     `mapstructure:"solana"`
	Log        LogConfig        `mapstructure:"log"`
	Curriculum CurriculumConfig `mapstructure:"curriculum"`
	Tutor      TutorConfig      `mapstructure:"tutor"`
}

// IdentityConfig selects whose progress record is used.
type IdentityConfig struct {
	Wallet  string `mapstructure:"wallet"`  // base58 address, read-only identity
	Keypair string `mapstructure:"keypair"` // Solana CLI keypair file, enables receipts
}

// StorageConfig selects and configures the progress backend.
type StorageConfig struct {
	Backend      string        `mapstructure:"backend"`
	DBPath       string        `mapstructure:"db_path"`
	Dir          string        `mapstructure:"dir"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisDB      int           `mapstructure:"redis_db"`
	RedisPass    string        `mapstructure:"redis_password"`
	PostgresURL  string        `mapstructure:"postgres_url"`
	MaxConns     int32         `mapstructure:"max_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

// SolanaConfig configures the receipt sender.
type SolanaConfig struct {
	RPCURL      string        `mapstructure:"rpc_url"`
	Cluster     string        `mapstructure:"cluster"`
	MemoProgram string        `mapstructure:"memo_program"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// CurriculumConfig points at an external curriculum file. Empty uses the
// embedded catalog.
type CurriculumConfig struct {
	Path string `mapstructure:"path"`
}

// TutorConfig toggles the optional LLM explanations. Provider keys come
// from ACADEMY_LLM_* or the providers' standard variables.
type TutorConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Model overrides the provider's default model or alias.
	Model string `mapstructure:"model"`
}

// FlagBinding maps a config key to a CLI flag. Flags only override the
// config when explicitly set.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// Load reads configuration in increasing priority: defaults, config file,
// .env, environment, flags. A missing config file is not an error unless
// file was given explicitly.
func Load(file string, flags ...FlagBinding) (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("academy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "academy"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range flags {
		if b.Flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, b.Flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", b.Flag.Name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("identity.wallet", "")
	v.SetDefault("identity.keypair", "")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("storage.max_conns", 4)
	v.SetDefault("storage.conn_lifetime", "30m")
	v.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	v.SetDefault("solana.cluster", "devnet")
	v.SetDefault("solana.memo_program", "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	v.SetDefault("solana.send_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("curriculum.path", "")
	v.SetDefault("tutor.enabled", true)
	v.SetDefault("tutor.model", "")
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url (%s_STORAGE_POSTGRES_URL) is required for the postgres backend", EnvPrefix)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if c.Solana.RPCURL == "" {
		return errors.New("solana.rpc_url must not be empty")
	}
	return nil
}
