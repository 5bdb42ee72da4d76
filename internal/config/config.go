// Package config loads service configuration from a YAML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the newsletter service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the externally reachable root of the service, embedded in
	// confirmation links (scheme + host, no trailing slash).
	BaseURL string `yaml:"base_url"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// EmailConfig holds outbound email transport settings. Provider selects the
// transport: "postmark" (default) or "ses".
type EmailConfig struct {
	Provider       string    `yaml:"provider"`
	BaseURL        string    `yaml:"base_url"`
	ServerToken    string    `yaml:"server_token"`
	Sender         string    `yaml:"sender"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	SES            SESConfig `yaml:"ses"`
}

// Timeout returns the per-send timeout as a duration.
func (e EmailConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES credentials for the "ses" provider.
type SESConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// AuthConfig holds operator-authentication settings.
type AuthConfig struct {
	// DecoySeed is hashed once at startup into the fixed decoy hash used to
	// equalize verification cost for unknown usernames.
	DecoySeed       string `yaml:"decoy_seed"`
	VerifierWorkers int    `yaml:"verifier_workers"`
	VerifierQueue   int    `yaml:"verifier_queue"`
}

// RateLimitConfig holds subscribe rate-limiter settings.
type RateLimitConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RedisURL      string `yaml:"redis_url"`
	Limit         int    `yaml:"limit"`
	WindowSeconds int    `yaml:"window_seconds"`
}

// Window returns the limiter window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Load reads and parses the YAML config file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s", cfg.Server.Addr())
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "postmark"
	}
	if cfg.Email.TimeoutSeconds == 0 {
		cfg.Email.TimeoutSeconds = 10
	}
	if cfg.Email.SES.Region == "" {
		cfg.Email.SES.Region = "us-east-1"
	}
	if cfg.Auth.VerifierWorkers == 0 {
		cfg.Auth.VerifierWorkers = 4
	}
	if cfg.Auth.VerifierQueue == 0 {
		cfg.Auth.VerifierQueue = 16
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 10
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads the config file and overrides secrets from the
// environment. A .env file is honored when present.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if token := os.Getenv("EMAIL_SERVER_TOKEN"); token != "" {
		cfg.Email.ServerToken = token
	}
	if seed := os.Getenv("AUTH_DECOY_SEED"); seed != "" {
		cfg.Auth.DecoySeed = seed
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RateLimit.RedisURL = redisURL
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.Email.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.Email.SES.SecretKey = secretKey
	}

	return cfg, nil
}
