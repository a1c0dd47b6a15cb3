package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "go-activitypub-sdk/1.0"
	DefaultConcurrency  = 8
)

// Environment variable names
const (
	EnvFetchTimeout = "ACTIVITYPUB_FETCH_TIMEOUT"
	EnvMaxBodyBytes = "ACTIVITYPUB_MAX_BODY_BYTES"
	EnvUserAgent    = "ACTIVITYPUB_USER_AGENT"
	EnvConcurrency  = "ACTIVITYPUB_CONCURRENCY"
)

// Config holds the settings used to build a resolver.
type Config struct {
	FetchTimeout time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Concurrency  int
}

// fileConfig is the YAML representation of Config.
type fileConfig struct {
	FetchTimeout string `yaml:"fetch_timeout"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	UserAgent    string `yaml:"user_agent"`
	Concurrency  int    `yaml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FetchTimeout: DefaultFetchTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
		UserAgent:    DefaultUserAgent,
		Concurrency:  DefaultConcurrency,
	}
}

// FromEnv returns the configuration from environment variables or default values.
func FromEnv() Config {
	return Config{
		FetchTimeout: FetchTimeout(),
		MaxBodyBytes: MaxBodyBytes(),
		UserAgent:    UserAgent(),
		Concurrency:  Concurrency(),
	}
}

// Load reads the YAML file at path, if any, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}

		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}

		if fc.FetchTimeout != "" {
			d, err := time.ParseDuration(fc.FetchTimeout)
			if err != nil {
				return Config{}, fmt.Errorf("invalid fetch_timeout %q: %w", fc.FetchTimeout, err)
			}
			cfg.FetchTimeout = d
		}
		if fc.MaxBodyBytes > 0 {
			cfg.MaxBodyBytes = fc.MaxBodyBytes
		}
		if fc.UserAgent != "" {
			cfg.UserAgent = fc.UserAgent
		}
		if fc.Concurrency > 0 {
			cfg.Concurrency = fc.Concurrency
		}
	}

	if d, ok := envDuration(EnvFetchTimeout); ok {
		cfg.FetchTimeout = d
	}
	if n, ok := envInt64(EnvMaxBodyBytes); ok {
		cfg.MaxBodyBytes = n
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if n, ok := envInt64(EnvConcurrency); ok {
		cfg.Concurrency = int(n)
	}

	return cfg, nil
}

// FetchTimeout returns the per-fetch timeout from environment variable or default value
func FetchTimeout() time.Duration {
	if d, ok := envDuration(EnvFetchTimeout); ok {
		return d
	}
	return DefaultFetchTimeout
}

// MaxBodyBytes returns the response size limit from environment variable or default value
func MaxBodyBytes() int64 {
	if n, ok := envInt64(EnvMaxBodyBytes); ok {
		return n
	}
	return DefaultMaxBodyBytes
}

// UserAgent returns the User-Agent from environment variable or default value
func UserAgent() string {
	if ua := os.Getenv(EnvUserAgent); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// Concurrency returns the batch resolution limit from environment variable or default value
func Concurrency() int {
	if n, ok := envInt64(EnvConcurrency); ok {
		return int(n)
	}
	return DefaultConcurrency
}

// envDuration reports a positive duration set in key. Unset or invalid
// values report false.
func envDuration(key string) (time.Duration, bool) {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// envInt64 reports a positive integer set in key.
func envInt64(key string) (int64, bool) {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
