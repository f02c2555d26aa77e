package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Cache     CacheConfig     `toml:"cache"`
	Gemini    GeminiConfig    `toml:"gemini"`
	Market    MarketConfig    `toml:"market"`
	Registry  RegistryConfig  `toml:"registry"`
	Wikipedia WikipediaConfig `toml:"wikipedia"`
	Logo      LogoConfig      `toml:"logo"`
	Insights  InsightsConfig  `toml:"insights"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects the insight cache backend.
// Backend is "memory" (default) or "badger".
type StorageConfig struct {
	Backend string       `toml:"backend"`
	Badger  BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// CacheConfig controls insight record caching.
type CacheConfig struct {
	TTL           string `toml:"ttl"`
	SweepSchedule string `toml:"sweep_schedule"`
}

// GetTTL parses the cache TTL, defaulting to six hours.
func (c *CacheConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 6*time.Hour)
}

// GeminiConfig holds generative model settings.
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`
	PrimaryModel   string  `toml:"primary_model"`
	FallbackModel  string  `toml:"fallback_model"`
	InferenceModel string  `toml:"inference_model"`
	Temperature    float64 `toml:"temperature"`
	Timeout        string  `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 60*time.Second)
}

// MarketConfig holds the quote/search endpoint settings.
type MarketConfig struct {
	QuoteSummaryHosts []string `toml:"quote_summary_hosts"`
	QuoteURL          string   `toml:"quote_url"`
	SearchURL         string   `toml:"search_url"`
	AutocompleteURL   string   `toml:"autocomplete_url"`
	UserAgent         string   `toml:"user_agent"`
	RateLimit         float64  `toml:"rate_limit"`
	Burst             int      `toml:"burst"`
	Timeout           string   `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *MarketConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// RegistryConfig holds the company registry service settings.
// An empty BaseURL disables registry lookups.
type RegistryConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *RegistryConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// WikipediaConfig controls the infobox representative lookup.
type WikipediaConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	UserAgent string `toml:"user_agent"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *WikipediaConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// LogoConfig holds logo provider settings.
type LogoConfig struct {
	FMPAPIKey     string `toml:"fmp_api_key"`
	FMPImageURL   string `toml:"fmp_image_url"`
	FMPProfileURL string `toml:"fmp_profile_url"`
	ClearbitURL   string `toml:"clearbit_url"`
	Timeout       string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *LogoConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 5*time.Second)
}

// InsightsConfig holds pipeline settings.
type InsightsConfig struct {
	MockDelay string `toml:"mock_delay"`
}

// GetMockDelay returns the artificial latency applied to demo records.
// "0" disables it.
func (c *InsightsConfig) GetMockDelay() time.Duration {
	return parseDuration(c.MockDelay, time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies AIDE_* environment variable overrides to config.
// The provider key names used by the hosted deployment (GEMINI_API_KEY,
// FMP_API_KEY, EDINET_API_KEY) are honoured as well; AIDE_* wins when both are set.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("AIDE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AIDE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if backend := os.Getenv("AIDE_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("AIDE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("AIDE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("AIDE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if ttl := os.Getenv("AIDE_CACHE_TTL"); ttl != "" {
		config.Cache.TTL = ttl
	}

	config.Gemini.APIKey = firstEnv(config.Gemini.APIKey, "AIDE_GEMINI_API_KEY", "GEMINI_API_KEY")
	config.Logo.FMPAPIKey = firstEnv(config.Logo.FMPAPIKey, "AIDE_FMP_API_KEY", "FMP_API_KEY")
	config.Registry.APIKey = firstEnv(config.Registry.APIKey, "AIDE_REGISTRY_API_KEY", "EDINET_API_KEY")

	if url := os.Getenv("AIDE_REGISTRY_URL"); url != "" {
		config.Registry.BaseURL = url
	}
	if enabled := os.Getenv("AIDE_WIKIPEDIA_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Wikipedia.Enabled = b
		}
	}
	if delay := os.Getenv("AIDE_MOCK_DELAY"); delay != "" {
		config.Insights.MockDelay = delay
	}
}

// firstEnv returns the first non-empty environment variable from names,
// or current when none is set.
func firstEnv(current string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return current
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of configuration problems that prevent startup.
// A missing Gemini key is not listed: the service starts and reports it per request.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	switch c.Storage.Backend {
	case "", "memory":
	case "badger":
		if strings.TrimSpace(c.Storage.Badger.Path) == "" {
			issues = append(issues, "storage.badger.path is required when storage.backend = \"badger\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"memory\" or \"badger\" (got %q)", c.Storage.Backend))
	}
	if len(c.Market.QuoteSummaryHosts) == 0 {
		issues = append(issues, "market.quote_summary_hosts must list at least one host")
	}
	return issues
}
