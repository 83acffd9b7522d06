package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Roster        RosterConfig        `yaml:"roster"`
	Groups        GroupsConfig        `yaml:"groups"`
	Session       SessionConfig       `yaml:"session"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

// RosterConfig points at the member roster loaded once at startup.
type RosterConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// GroupsConfig holds allocation defaults.
type GroupsConfig struct {
	DefaultSize int `yaml:"default_size"`
	MinSize     int `yaml:"min_size"`
	MaxSize     int `yaml:"max_size"`
}

// SessionConfig holds per-user session settings.
type SessionConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	ServiceName    string `yaml:"service_name"`
}

const (
	DefaultHTTPAddr       = ":8080"
	DefaultRosterSheet    = "회원명부"
	DefaultGroupSize      = 4
	DefaultMinGroupSize   = 2
	DefaultMaxGroupSize   = 6
	DefaultSessionTTL     = 12 * time.Hour
	DefaultCookieName     = "session_id"
	DefaultServiceName    = "outing-bot"
	DefaultMaxUploadBytes = 10 << 20

	DefaultMetricsEnabled = true
)

// newConfig returns the values that cannot be told apart from an unset
// field after decoding.
func newConfig() Config {
	return Config{
		Observability: ObservabilityConfig{MetricsEnabled: DefaultMetricsEnabled},
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.HTTP.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimitBurst = n
		}
	}
	if v := os.Getenv("ROSTER_PATH"); v != "" {
		cfg.Roster.Path = v
	}
	if v := os.Getenv("ROSTER_SHEET"); v != "" {
		cfg.Roster.Sheet = v
	}
	if v := os.Getenv("DEFAULT_GROUP_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Groups.DefaultSize = n
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	cfg := newConfig()

	cfg.Roster.Path = os.Getenv("ROSTER_PATH")
	if cfg.Roster.Path == "" {
		return nil, fmt.Errorf("ROSTER_PATH environment variable not set")
	}
	cfg.Roster.Sheet = os.Getenv("ROSTER_SHEET")

	cfg.HTTP.Addr = os.Getenv("HTTP_ADDR")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS value: %v", err)
		}
		cfg.HTTP.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST value: %v", err)
		}
		cfg.HTTP.RateLimitBurst = n
	}

	if v := os.Getenv("DEFAULT_GROUP_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_GROUP_SIZE value: %v", err)
		}
		cfg.Groups.DefaultSize = n
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL value: %v", err)
		}
		cfg.Session.TTL = d
	}

	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Observability.Environment = os.Getenv("ENV")
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = 20
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = 40
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.HTTP.MaxUploadBytes == 0 {
		c.HTTP.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Roster.Sheet == "" {
		c.Roster.Sheet = DefaultRosterSheet
	}
	if c.Groups.MinSize == 0 {
		c.Groups.MinSize = DefaultMinGroupSize
	}
	if c.Groups.MaxSize == 0 {
		c.Groups.MaxSize = DefaultMaxGroupSize
	}
	if c.Groups.DefaultSize == 0 {
		c.Groups.DefaultSize = DefaultGroupSize
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "production"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = DefaultServiceName
	}
}

// Validate checks the settings that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if c.Roster.Path == "" {
		return fmt.Errorf("roster path is required")
	}
	if c.Groups.MinSize < 1 {
		return fmt.Errorf("groups.min_size must be at least 1, got %d", c.Groups.MinSize)
	}
	if c.Groups.MaxSize < c.Groups.MinSize {
		return fmt.Errorf("groups.max_size (%d) is below groups.min_size (%d)", c.Groups.MaxSize, c.Groups.MinSize)
	}
	if c.Groups.DefaultSize < c.Groups.MinSize || c.Groups.DefaultSize > c.Groups.MaxSize {
		return fmt.Errorf("groups.default_size %d outside [%d, %d]", c.Groups.DefaultSize, c.Groups.MinSize, c.Groups.MaxSize)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
