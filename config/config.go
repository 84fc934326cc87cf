package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Discovery DiscoveryConfig
	Resolver  ResolverConfig
	Cache     CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds sqlite database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DiscoveryConfig holds external discovery service configuration
type DiscoveryConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ResolverConfig holds resolution and aggregation limits
type ResolverConfig struct {
	SwapLimit              int `mapstructure:"swap_limit"`
	AvailabilityCap        int `mapstructure:"availability_cap"`
	CommunityFreshnessDays int `mapstructure:"community_freshness_days"`
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	TTL                time.Duration `mapstructure:"ttl"`
	AsyncSwapWriteback bool          `mapstructure:"async_swap_writeback"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/swaplens/")

	// Environment variable settings
	v.SetEnvPrefix("SWAPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Database defaults
	v.SetDefault("database.path", "swaplens.db")

	// Discovery defaults
	v.SetDefault("discovery.base_url", "https://discovery.swaplens.app")
	v.SetDefault("discovery.timeout", "3s")

	// Resolver defaults
	v.SetDefault("resolver.swap_limit", 5)
	v.SetDefault("resolver.availability_cap", 5)
	v.SetDefault("resolver.community_freshness_days", 90)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.async_swap_writeback", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Discovery.APIKey == "" {
		return fmt.Errorf("discovery API key is required (set SWAPLENS_DISCOVERY_API_KEY)")
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if config.Discovery.Timeout <= 0 || config.Discovery.Timeout > 10*time.Second {
		return fmt.Errorf("discovery timeout must be within (0s, 10s], got: %s", config.Discovery.Timeout)
	}

	if config.Resolver.SwapLimit <= 0 || config.Resolver.AvailabilityCap <= 0 {
		return fmt.Errorf("resolver limits must be positive")
	}

	return nil
}
