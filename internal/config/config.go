// Package config loads the intentgate daemon configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/intentgate/internal/badge"
	"github.com/ppiankov/intentgate/internal/classifier"
	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/logging"
	"github.com/ppiankov/intentgate/internal/registry"
	"github.com/ppiankov/intentgate/internal/server"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// Environment variables that override the YAML file.
const (
	EnvStoreBackend = "INTENTGATE_STORE_BACKEND"
	EnvStorePath    = "INTENTGATE_STORE_PATH"
	EnvRedisURL     = "INTENTGATE_REDIS_URL"
	EnvModel        = "INTENTGATE_MODEL"
	EnvModelDir     = "INTENTGATE_MODEL_DIR"
	EnvLogLevel     = "INTENTGATE_LOG_LEVEL"
	EnvLogFormat    = "INTENTGATE_LOG_FORMAT"
	EnvAuditLog     = "INTENTGATE_AUDIT_LOG"
	EnvAddr         = "INTENTGATE_ADDR"
)

// Config is the daemon configuration.
type Config struct {
	Store        store.Options  `yaml:"store"`
	Model        ModelConfig    `yaml:"model"`
	Server       ServerConfig   `yaml:"server"`
	Badge        BadgeConfig    `yaml:"badge"`
	Log          logging.Config `yaml:"log"`
	AuditLog     string         `yaml:"audit_log"`
	DefaultSites []string       `yaml:"default_sites"`
	Defaults     InstallValues  `yaml:"defaults"`
}

// ModelConfig selects the classifier snapshot.
type ModelConfig struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BadgeConfig configures the countdown badge.
type BadgeConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// InstallValues are the option values written on first install.
type InstallValues struct {
	WhitelistTime    float64 `yaml:"whitelist_time"`
	NumIntentEntries float64 `yaml:"num_intent_entries"`
	EnableBlobs      bool    `yaml:"enable_blobs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: store.Options{
			Backend:  store.BackendFile,
			RedisKey: store.DefaultRedisKey,
		},
		Model: ModelConfig{
			Name:  classifier.DefaultModel,
			Dir:   filepath.Join(Dir(), "models"),
			Watch: true,
		},
		Server:       ServerConfig{Addr: server.DefaultAddr},
		Badge:        BadgeConfig{Interval: badge.DefaultInterval},
		Log:          logging.Config{Level: "info", Format: logging.FormatText},
		AuditLog:     filepath.Join(Dir(), "audit.jsonl"),
		DefaultSites: append([]string(nil), registry.DefaultSites...),
		Defaults: InstallValues{
			WhitelistTime:    settings.DefaultWhitelistTime,
			NumIntentEntries: settings.DefaultNumIntentEntries,
			EnableBlobs:      true,
		},
	}
}

// Dir returns ~/.intentgate.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "intentgate")
	}
	return filepath.Join(home, ".intentgate")
}

// DefaultPath returns ~/.intentgate/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LoadEnv reads .env files into the process environment. Missing files are
// ignored and variables already set are kept.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads the config at path (DefaultPath when empty) and applies
// environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the YAML file without environment overrides.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, o := range []struct {
		key string
		dst *string
	}{
		{EnvStoreBackend, &c.Store.Backend},
		{EnvStorePath, &c.Store.Path},
		{EnvRedisURL, &c.Store.RedisURL},
		{EnvModel, &c.Model.Name},
		{EnvModelDir, &c.Model.Dir},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
		{EnvAuditLog, &c.AuditLog},
		{EnvAddr, &c.Server.Addr},
	} {
		if v, ok := lookup(o.key); ok {
			*o.dst = strings.TrimSpace(v)
		}
	}
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", store.BackendFile, store.BackendSQLite, store.BackendMemory:
	case store.BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Badge.Interval <= 0 {
		return fmt.Errorf("badge.interval must be positive, got %s", c.Badge.Interval)
	}
	if c.Defaults.WhitelistTime <= 0 {
		return fmt.Errorf("defaults.whitelist_time must be positive, got %v", c.Defaults.WhitelistTime)
	}
	if c.Defaults.NumIntentEntries < 0 {
		return fmt.Errorf("defaults.num_intent_entries must not be negative, got %v", c.Defaults.NumIntentEntries)
	}
	return nil
}

// InstallDefaults converts the first-install section for the gate engine.
func (c *Config) InstallDefaults() gate.InstallDefaults {
	return gate.InstallDefaults{
		Sites:            c.DefaultSites,
		WhitelistTime:    c.Defaults.WhitelistTime,
		NumIntentEntries: c.Defaults.NumIntentEntries,
		EnableBlobs:      c.Defaults.EnableBlobs,
	}
}

func (c *Config) expand() {
	c.Store.Path = expandHome(c.Store.Path)
	c.Model.Dir = expandHome(c.Model.Dir)
	c.AuditLog = expandHome(c.AuditLog)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
