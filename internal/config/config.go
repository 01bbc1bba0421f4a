package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Remote search backend drivers.
const (
	RemoteHTTP          = "http"
	RemoteElasticsearch = "elasticsearch"
	RemoteNone          = "none"
)

// Config holds the localdex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Remote   RemoteConfig   `yaml:"remote"`
	Search   SearchConfig   `yaml:"search"`
	Related  RelatedConfig  `yaml:"related"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Recent   RecentConfig   `yaml:"recent"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RemoteConfig selects and configures the remote search backend.
type RemoteConfig struct {
	Driver      string   `yaml:"driver"` // http, elasticsearch, none (default: none)
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	TimeoutMs   int      `yaml:"timeout_ms"`
	Addresses   []string `yaml:"addresses"`    // elasticsearch nodes
	IndexPrefix string   `yaml:"index_prefix"` // elasticsearch index name prefix
}

// Timeout returns the remote call budget.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// SearchConfig holds universal search settings.
type SearchConfig struct {
	MaxResults       int `yaml:"max_results"`
	HardMaxResults   int `yaml:"hard_max_results"`
	GatewayTimeoutMs int `yaml:"gateway_timeout_ms"`
	MaxParallel      int `yaml:"max_parallel"`
	ScanLimit        int `yaml:"scan_limit"`
}

// GatewayTimeout returns the per-collection budget of the local tier.
func (s SearchConfig) GatewayTimeout() time.Duration {
	return time.Duration(s.GatewayTimeoutMs) * time.Millisecond
}

// RelatedConfig holds related-item settings.
type RelatedConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// SuggestConfig holds type-ahead settings.
type SuggestConfig struct {
	CacheSize   int      `yaml:"cache_size"`
	CacheTTLSec int      `yaml:"cache_ttl_sec"`
	Catalog     []string `yaml:"catalog"` // empty = built-in catalog
}

// CacheTTL returns the remote suggestion cache lifetime.
func (s SuggestConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
}

// RecentConfig holds recent-search buffer settings.
type RecentConfig struct {
	Capacity int `yaml:"capacity"`
	TTLHours int `yaml:"ttl_hours"`
}

// TTL returns how long an idle session buffer is kept.
func (r RecentConfig) TTL() time.Duration {
	return time.Duration(r.TTLHours) * time.Hour
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Remote.Driver == "" {
		c.Remote.Driver = RemoteNone
	}
	if c.Remote.TimeoutMs <= 0 {
		c.Remote.TimeoutMs = 1500
	}
	if c.Remote.IndexPrefix == "" {
		c.Remote.IndexPrefix = "localdex-"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 50
	}
	if c.Search.HardMaxResults <= 0 {
		c.Search.HardMaxResults = 200
	}
	if c.Search.GatewayTimeoutMs <= 0 {
		c.Search.GatewayTimeoutMs = 800
	}
	if c.Search.MaxParallel <= 0 {
		c.Search.MaxParallel = 5
	}
	if c.Search.ScanLimit <= 0 {
		c.Search.ScanLimit = 500
	}
	if c.Related.DefaultLimit <= 0 {
		c.Related.DefaultLimit = 6
	}
	if c.Related.MaxLimit <= 0 {
		c.Related.MaxLimit = 50
	}
	if c.Suggest.CacheSize <= 0 {
		c.Suggest.CacheSize = 256
	}
	if c.Suggest.CacheTTLSec <= 0 {
		c.Suggest.CacheTTLSec = 60
	}
	if c.Recent.Capacity <= 0 {
		c.Recent.Capacity = 8
	}
	if c.Recent.TTLHours <= 0 {
		c.Recent.TTLHours = 720
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverValkey, c.Database.Driver)
	}
	switch c.Remote.Driver {
	case RemoteNone:
	case RemoteHTTP:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.base_url is required for driver %q", RemoteHTTP)
		}
	case RemoteElasticsearch:
		if len(c.Remote.Addresses) == 0 {
			return fmt.Errorf("remote.addresses is required for driver %q", RemoteElasticsearch)
		}
	default:
		return fmt.Errorf("remote.driver must be one of http, elasticsearch, none, got %q", c.Remote.Driver)
	}
	if c.Search.MaxResults > c.Search.HardMaxResults {
		return fmt.Errorf("search.max_results (%d) exceeds search.hard_max_results (%d)",
			c.Search.MaxResults, c.Search.HardMaxResults)
	}
	if c.Related.DefaultLimit > c.Related.MaxLimit {
		return fmt.Errorf("related.default_limit (%d) exceeds related.max_limit (%d)",
			c.Related.DefaultLimit, c.Related.MaxLimit)
	}
	if c.Recent.Capacity < 5 || c.Recent.Capacity > 10 {
		return fmt.Errorf("recent.capacity must be between 5 and 10, got %d", c.Recent.Capacity)
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
