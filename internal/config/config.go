package config

import "time"

// Config holds runtime configuration for the server.
type Config struct {
	Port       string `env:"PORT" envDefault:"4000"`
	AdminToken string `env:"ADMIN_TOKEN"`
	// EnforceOwnership rejects group mutations by users that do not list the group.
	EnforceOwnership bool `env:"ENFORCE_GROUP_OWNERSHIP" envDefault:"false"`

	Catalog CatalogConfig
	Metrics MetricsConfig
	Tracing TracingConfig
	Log     LogConfig
}

// CatalogConfig controls how games are resolved.
type CatalogConfig struct {
	Provider      string        `env:"CATALOG_PROVIDER" envDefault:"fixture"`
	BaseURL       string        `env:"BGA_BASE_URL" envDefault:"https://api.boardgameatlas.com/api"`
	ClientID      string        `env:"BGA_CLIENT_ID"`
	Timeout       time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	MinInterval   time.Duration `env:"CATALOG_MIN_INTERVAL" envDefault:"1s"`
	RetryAttempts int           `env:"CATALOG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBackoff  time.Duration `env:"CATALOG_RETRY_BACKOFF" envDefault:"500ms"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from environment variables with sensible defaults.
// Malformed values are reported; out-of-range values fall back to defaults.
func Load() (Config, error) {
	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.Catalog.Provider == "" {
		c.Catalog.Provider = defaultCatalogProvider
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultBgaBaseURL
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = defaultCatalogTimeout
	}
	// A zero interval is meaningful: it disables client-side throttling.
	if c.Catalog.MinInterval < 0 {
		c.Catalog.MinInterval = defaultCatalogInterval
	}
	if c.Catalog.RetryAttempts <= 0 {
		c.Catalog.RetryAttempts = defaultCatalogRetries
	}
	if c.Catalog.RetryBackoff <= 0 {
		c.Catalog.RetryBackoff = defaultCatalogBackoff
	}
	if c.Metrics.Port == "" {
		c.Metrics.Port = defaultMetricsPort
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = defaultServiceName
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = defaultSampleRatio
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}
