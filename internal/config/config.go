// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	BasePath     string        `yaml:"base_path"` // route prefix, e.g. /functions/v1
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	// InitializeRateLimit caps initialize calls per identity per minute; 0 disables.
	InitializeRateLimit int `yaml:"initialize_rate_limit"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // optional; limiter, user cache and reconciler lock are off without it
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // user cache entry lifetime
}

// AuthConfig holds the secrets used to resolve bearer tokens.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	ServiceRoleKey string `yaml:"service_role_key"`
}

type PaystackConfig struct {
	SecretKey       string        `yaml:"secret_key"`
	BaseURL         string        `yaml:"base_url"`
	Currency        string        `yaml:"currency"`
	ReferencePrefix string        `yaml:"reference_prefix"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent"` // in-flight provider calls; 0 is unlimited
}

type WorkerConfig struct {
	Workers int `yaml:"workers"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"` // 0 disables
	StaleAfter time.Duration `yaml:"stale_after"`
	MaxAge     time.Duration `yaml:"max_age"` // older pending references are left alone
	BatchSize  int           `yaml:"batch_size"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Paystack   PaystackConfig   `yaml:"paystack"`
	Worker     WorkerConfig     `yaml:"worker"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Metrics    MetricsConfig    `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (optional when every required value
// comes from the environment), applies env overrides and defaults, and
// validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.Runtime.Dev = dev

	applyEnv(&cfg, os.Getenv)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets the deployment secrets come from the environment, the way
// the hosted functions receive them.
func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Database.URL, "DATABASE_URL")
	set(&cfg.Redis.URL, "REDIS_URL")
	set(&cfg.Paystack.SecretKey, "PAYSTACK_SECRET_KEY")
	set(&cfg.Auth.JWTSecret, "SUPABASE_JWT_SECRET")
	set(&cfg.Auth.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = "/functions/v1"
	}
	cfg.Server.BasePath = "/" + strings.Trim(cfg.Server.BasePath, "/")
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 10 * time.Minute
	}
	if cfg.Paystack.BaseURL == "" {
		cfg.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Paystack.Currency == "" {
		cfg.Paystack.Currency = "NGN"
	}
	if cfg.Paystack.ReferencePrefix == "" {
		cfg.Paystack.ReferencePrefix = "BBHR_"
	}
	if cfg.Paystack.Timeout <= 0 {
		cfg.Paystack.Timeout = 15 * time.Second
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 4
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 30 * time.Minute
	}
	if cfg.Reconciler.MaxAge <= 0 {
		cfg.Reconciler.MaxAge = 72 * time.Hour
	}
	if cfg.Reconciler.BatchSize <= 0 {
		cfg.Reconciler.BatchSize = 100
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate checks the values without which the service cannot run.
// Dev mode tolerates a missing Paystack key (an in-memory gateway is used).
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Paystack.SecretKey == "" && !c.Runtime.Dev {
		return errors.New("paystack.secret_key is required")
	}
	return nil
}
