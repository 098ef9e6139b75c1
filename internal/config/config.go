package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the landscan API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Search   SearchConfig   `yaml:"search"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UpstreamConfig holds listing service client settings.
type UpstreamConfig struct {
	BaseURL       string `yaml:"base_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	DelayMs       int    `yaml:"delay_ms"`        // fixed part of the post-request pause
	RandomDelayMs int    `yaml:"random_delay_ms"` // random part, uniform in [0, n)
	UserAgent     string `yaml:"user_agent"`
	Referer       string `yaml:"referer"`
	// InsecureSkipVerify disables TLS certificate checks for the listing service.
	// Defaults to true: its certificate chain does not verify.
	InsecureSkipVerify *bool `yaml:"insecure_skip_verify"`
	HealthCheck        bool  `yaml:"health_check"` // check upstream reachability from /health
}

// SearchConfig holds orchestration limits.
type SearchConfig struct {
	MaxPages   int `yaml:"max_pages"`   // clamped to 10
	TimeoutSec int `yaml:"timeout_sec"` // whole-search deadline
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Timeout returns the per-request upstream timeout.
func (u UpstreamConfig) Timeout() time.Duration { return time.Duration(u.TimeoutSec) * time.Second }

// Delay returns the fixed pacing delay.
func (u UpstreamConfig) Delay() time.Duration { return time.Duration(u.DelayMs) * time.Millisecond }

// RandomDelay returns the random pacing delay bound.
func (u UpstreamConfig) RandomDelay() time.Duration {
	return time.Duration(u.RandomDelayMs) * time.Millisecond
}

// SkipTLSVerify reports whether certificate verification is disabled.
func (u UpstreamConfig) SkipTLSVerify() bool {
	return u.InsecureSkipVerify == nil || *u.InsecureSkipVerify
}

// Timeout returns the whole-search deadline.
func (s SearchConfig) Timeout() time.Duration { return time.Duration(s.TimeoutSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://m.land.naver.com/cluster/ajax/articleList"
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 15
	}
	if c.Upstream.DelayMs == 0 {
		c.Upstream.DelayMs = 1000
	}
	if c.Upstream.RandomDelayMs == 0 {
		c.Upstream.RandomDelayMs = 1000
	}
	if c.Search.MaxPages <= 0 || c.Search.MaxPages > 10 {
		c.Search.MaxPages = 10
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 100
	}
	// A search response is written after the search finishes.
	if c.HTTP.WriteTimeoutSec <= c.Search.TimeoutSec {
		c.HTTP.WriteTimeoutSec = c.Search.TimeoutSec + 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("upstream.base_url must be an absolute http(s) url, got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.DelayMs < 0 || c.Upstream.RandomDelayMs < 0 {
		return fmt.Errorf("upstream.delay_ms and upstream.random_delay_ms must not be negative")
	}
	for _, o := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("cors.allowed_origins must not contain empty entries")
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
