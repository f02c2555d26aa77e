package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Badger: BadgerConfig{
				Path: "./data/aide",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/aide-portal.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		Cache: CacheConfig{
			TTL:           "6h",
			SweepSchedule: "@every 30m",
		},
		Gemini: GeminiConfig{
			PrimaryModel:   "gemini-2.5-flash-lite",
			FallbackModel:  "gemini-2.0-flash",
			InferenceModel: "gemini-2.0-flash",
			Temperature:    0.7,
			Timeout:        "60s",
		},
		Market: MarketConfig{
			QuoteSummaryHosts: []string{
				"https://query2.finance.yahoo.com",
				"https://query1.finance.yahoo.com",
			},
			QuoteURL:        "https://query1.finance.yahoo.com/v7/finance/quote",
			SearchURL:       "https://query2.finance.yahoo.com/v1/finance/search",
			AutocompleteURL: "https://autoc.finance.yahoo.com/autoc",
			UserAgent:       "Mozilla/5.0 (compatible; AIDE/1.0; +https://aide-investment-app.local)",
			RateLimit:       5,
			Burst:           5,
			Timeout:         "10s",
		},
		Registry: RegistryConfig{
			Timeout: "10s",
		},
		Wikipedia: WikipediaConfig{
			Enabled:   false,
			Endpoint:  "https://ja.wikipedia.org/w/api.php",
			UserAgent: "AIDE-Investment-App/1.0 (+https://aide.example.com)",
			Timeout:   "10s",
		},
		Logo: LogoConfig{
			FMPImageURL:   "https://financialmodelingprep.com/image-stock",
			FMPProfileURL: "https://financialmodelingprep.com/api/v3/profile",
			ClearbitURL:   "https://logo.clearbit.com",
			Timeout:       "5s",
		},
		Insights: InsightsConfig{
			MockDelay: "1s",
		},
	}
}
