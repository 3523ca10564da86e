package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Registry RegistryConfig `mapstructure:"registry"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Registry source kinds.
const (
	SourceRemote = "remote"
	SourceFile   = "file"
)

// RegistryConfig holds settings for loading the archive registry.
type RegistryConfig struct {
	Source          string        `mapstructure:"source"`
	SubstrateURL    string        `mapstructure:"substrate_url"`
	EVMURL          string        `mapstructure:"evm_url"`
	NetworksURL     string        `mapstructure:"networks_url"`
	Dir             string        `mapstructure:"dir"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ProbeConfig holds settings for remote version and genesis probes.
type ProbeConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxWorkers int           `mapstructure:"max_workers"`
}

// CacheConfig holds settings for the caching layer.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// LookupConfig holds lookup defaults.
type LookupConfig struct {
	DefaultRelease DefaultReleaseConfig `mapstructure:"default_release"`
}

// DefaultReleaseConfig holds the release applied per family when none is requested.
type DefaultReleaseConfig struct {
	Substrate string `mapstructure:"substrate"`
	EVM       string `mapstructure:"evm"`
}

// DefaultProbeTimeout is the budget of a single probe request.
const DefaultProbeTimeout = 5 * time.Second

const registryBaseURL = "https://raw.githubusercontent.com/subsquid/archive-registry/main/"

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("ARCHIVE_REGISTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "archive-registry")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("registry.source", SourceRemote)
	v.SetDefault("registry.substrate_url", registryBaseURL+"archives.json")
	v.SetDefault("registry.evm_url", registryBaseURL+"archives-evm.json")
	v.SetDefault("registry.networks_url", registryBaseURL+"networks.json")
	v.SetDefault("registry.dir", "registry")
	v.SetDefault("registry.fetch_timeout", "15s")
	v.SetDefault("registry.refresh_interval", "1h")
	v.SetDefault("probe.timeout", DefaultProbeTimeout.String())
	v.SetDefault("probe.max_workers", 10)
	v.SetDefault("cache.default_expiration", "30m")
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("lookup.default_release.substrate", "ArrowSquid")
	v.SetDefault("lookup.default_release.evm", "ArrowSquid")
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Registry.Source {
	case SourceRemote, SourceFile:
	default:
		return fmt.Errorf("invalid registry.source '%s', expected '%s' or '%s'",
			c.Registry.Source, SourceRemote, SourceFile,
		)
	}
	return nil
}

func (c ProbeConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultProbeTimeout
	}
	return c.Timeout
}

func (c ProbeConfig) GetMaxWorkers() int {
	if c.MaxWorkers <= 0 {
		return 1
	}
	return c.MaxWorkers
}

func (c RegistryConfig) GetFetchTimeout() time.Duration {
	return c.FetchTimeout
}

func (c RegistryConfig) GetRefreshInterval() time.Duration {
	return c.RefreshInterval
}

func (c CacheConfig) GetDefaultExpiration() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}
