package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Counter CounterConfig `yaml:"counter"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// StoreConfig selects and configures the storage backend
type StoreConfig struct {
	// Driver is one of "sqlite", "redis" or "memory".
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisAuth string `yaml:"redis_auth"`
}

// CounterConfig holds the counter and dedup settings
type CounterConfig struct {
	AllowedNames []string `yaml:"allowed_names"`
	DefaultName  string   `yaml:"default_name"`
	MinWidth     int      `yaml:"min_width"`
	DedupWindow  Duration `yaml:"dedup_window"`
}

// Duration is a time.Duration that unmarshals YAML strings like "30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads configuration from an optional YAML file, then applies
// environment variable overrides and validates the result. An empty path
// means env-only configuration.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "4698",
			Env:  "development",
		},
		Store: StoreConfig{
			Driver:    "sqlite",
			Path:      "./hits.db",
			RedisAddr: "127.0.0.1:6379",
		},
		Counter: CounterConfig{
			AllowedNames: []string{"default"},
			DefaultName:  "default",
			MinWidth:     5,
			DedupWindow:  Duration(time.Hour),
		},
	}
}

// applyEnv overrides config values from environment variables
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)
	c.Store.Driver = getEnv("HITS_STORE", c.Store.Driver)
	c.Store.Path = getEnv("HITS_DB_PATH", c.Store.Path)
	c.Store.RedisAddr = getEnv("HITS_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisAuth = getEnv("HITS_REDIS_AUTH", c.Store.RedisAuth)
	c.Counter.DefaultName = getEnv("HITS_DEFAULT_NAME", c.Counter.DefaultName)

	if v := os.Getenv("HITS_ALLOWED_NAMES"); v != "" {
		c.Counter.AllowedNames = splitNames(v)
	}
	if v := os.Getenv("HITS_MIN_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Counter.MinWidth = n
		}
	}
	if v := os.Getenv("HITS_DEDUP_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Counter.DedupWindow = Duration(d)
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	switch c.Store.Driver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("sqlite store requires a database path")
	}
	if c.Store.Driver == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("redis store requires an address")
	}
	if len(c.Counter.AllowedNames) == 0 {
		return fmt.Errorf("allowed names must not be empty")
	}
	if c.Counter.MinWidth < 0 {
		return fmt.Errorf("min width must not be negative")
	}
	if c.Counter.DedupWindow <= 0 {
		return fmt.Errorf("dedup window must be positive")
	}
	if !c.NameSet().Contains(c.Counter.DefaultName) {
		return fmt.Errorf("default name %q is not in the allow-list", c.Counter.DefaultName)
	}
	return nil
}

// NameSet returns the allow-list as a set for membership tests
func (c *Config) NameSet() NameSet {
	return NewNameSet(c.Counter.AllowedNames)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// splitNames parses a comma-delimited name list, trimming blanks
func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// ExpandPath expands a leading ~/ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
