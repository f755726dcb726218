// Package config loads node settings from defaults, a TOML file and
// REVEALER_* environment variables, in increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
)

// EnvPrefix prefixes environment overrides: store.path is REVEALER_STORE_PATH.
const EnvPrefix = "REVEALER"

// Store backends.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

// Config is the full node configuration.
type Config struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	HTTP3       HTTP3Config       `mapstructure:"http3"`
	Store       StoreConfig       `mapstructure:"store"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Log         LogConfig         `mapstructure:"log"`
	DocsURL     string            `mapstructure:"docs_url"`
}

// HTTPConfig configures the TCP listener.
type HTTPConfig struct {
	Address     string        `mapstructure:"address"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// HTTP3Config configures the optional QUIC listener. Without a certificate
// a self-signed one is generated.
type HTTP3Config struct {
	Address  string `mapstructure:"address"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// StoreConfig selects and tunes the hash store.
type StoreConfig struct {
	Backend           string        `mapstructure:"backend"`
	Path              string        `mapstructure:"path"`
	TTL               time.Duration `mapstructure:"ttl"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	CompressThreshold int           `mapstructure:"compress_threshold"`
}

// CoordinatorConfig tunes commit handling.
type CoordinatorConfig struct {
	// WaitTimeout bounds how long a commit waits for its group; zero waits
	// until the caller disconnects.
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)

	v.SetDefault("http3.address", "")
	v.SetDefault("http3.cert_file", "")
	v.SetDefault("http3.key_file", "")

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.path", "data")
	v.SetDefault("store.ttl", 5*time.Minute) // how long a published preimage stays observable
	v.SetDefault("store.sweep_interval", 10*time.Second)
	v.SetDefault("store.compress_threshold", 256)

	v.SetDefault("coordinator.wait_timeout", time.Duration(0))

	v.SetDefault("docs_url", "https://github.com/voltrevo/trusted-hash-revealer")
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads path (if non-empty) over the defaults and environment.
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper decodes and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the node cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	if c.HTTP.ReadTimeout < 0 {
		return errors.Newf("http.read_timeout must not be negative, got %s", c.HTTP.ReadTimeout)
	}

	if (c.HTTP3.CertFile == "") != (c.HTTP3.KeyFile == "") {
		return errors.New("http3.cert_file and http3.key_file must be set together")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPebble:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the pebble backend")
		}
	default:
		return errors.WithHintf(
			errors.Newf("unknown store.backend %q", c.Store.Backend),
			"use %q or %q", BackendMemory, BackendPebble,
		)
	}

	if c.Store.TTL <= 0 {
		return errors.Newf("store.ttl must be positive, got %s", c.Store.TTL)
	}
	if c.Store.SweepInterval < 0 {
		return errors.Newf("store.sweep_interval must not be negative, got %s", c.Store.SweepInterval)
	}
	if c.Coordinator.WaitTimeout < 0 {
		return errors.Newf("coordinator.wait_timeout must not be negative, got %s", c.Coordinator.WaitTimeout)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}

	return nil
}
