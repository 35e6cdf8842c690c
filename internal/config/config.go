package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once by the
// caller and passed down; nothing in this package keeps global state.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"`
	Connectors ConnectorsConfig `mapstructure:"connectors"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestsPerMin int           `mapstructure:"requests_per_min"`
	Burst          int           `mapstructure:"burst"`
}

// FetcherConfig holds page and auxiliary fetch configuration.
type FetcherConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	PageTimeout time.Duration `mapstructure:"page_timeout"`
	AuxTimeout  time.Duration `mapstructure:"aux_timeout"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
}

// ConnectorsConfig holds the optional external scoring connectors.
type ConnectorsConfig struct {
	PageSpeed   PageSpeedConfig   `mapstructure:"pagespeed"`
	DomainTrust DomainTrustConfig `mapstructure:"domain_trust"`
}

// PageSpeedConfig configures the third-party performance scoring API.
// Without an API key the connector falls back to local estimates.
type PageSpeedConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Strategy string        `mapstructure:"strategy"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DomainTrustConfig configures the domain-trust estimator. MozAPIKey is a
// slot for a real metrics backend; nothing binds it yet, so the estimator
// always reports estimated reliability.
type DomainTrustConfig struct {
	MozAPIKey       string        `mapstructure:"moz_api_key"`
	ArchiveEndpoint string        `mapstructure:"archive_endpoint"`
	ArchiveTimeout  time.Duration `mapstructure:"archive_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load reads configuration from file and environment. A missing config file
// is not an error; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.sitegauge")
	}

	setDefaults(v)

	v.SetEnvPrefix("SITEGAUGE")
	v.AutomaticEnv()
	v.BindEnv("connectors.pagespeed.api_key", "PAGESPEED_API_KEY")
	v.BindEnv("connectors.domain_trust.moz_api_key", "MOZ_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.requests_per_min", 30)
	v.SetDefault("server.burst", 5)

	v.SetDefault("fetcher.user_agent",
		"Mozilla/5.0 (compatible; SiteGauge/1.0; +https://github.com/sitegauge/sitegauge)")
	v.SetDefault("fetcher.page_timeout", "10s")
	v.SetDefault("fetcher.aux_timeout", "5s")
	v.SetDefault("fetcher.max_body_size", 10*1024*1024)

	v.SetDefault("connectors.pagespeed.endpoint",
		"https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("connectors.pagespeed.strategy", "mobile")
	v.SetDefault("connectors.pagespeed.timeout", "30s")

	v.SetDefault("connectors.domain_trust.archive_endpoint",
		"https://archive.org/wayback/available")
	v.SetDefault("connectors.domain_trust.archive_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if c.Fetcher.PageTimeout <= 0 {
		return fmt.Errorf("fetcher.page_timeout must be positive")
	}
	if c.Fetcher.AuxTimeout <= 0 {
		return fmt.Errorf("fetcher.aux_timeout must be positive")
	}
	if c.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be positive")
	}
	if s := c.Connectors.PageSpeed.Strategy; s != "mobile" && s != "desktop" {
		return fmt.Errorf("connectors.pagespeed.strategy must be mobile or desktop, got %q", s)
	}
	if c.Server.RequestsPerMin <= 0 {
		return fmt.Errorf("server.requests_per_min must be positive")
	}
	return nil
}
