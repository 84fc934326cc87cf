package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SWAPLENS_SERVER_PORT")
		os.Unsetenv("SWAPLENS_SERVER_ENVIRONMENT")
		os.Unsetenv("SWAPLENS_DATABASE_PATH")
		os.Unsetenv("SWAPLENS_DISCOVERY_API_KEY")
		os.Unsetenv("SWAPLENS_DISCOVERY_BASE_URL")
		os.Unsetenv("SWAPLENS_DISCOVERY_TIMEOUT")
		os.Unsetenv("SWAPLENS_RESOLVER_SWAP_LIMIT")
		os.Unsetenv("SWAPLENS_RESOLVER_AVAILABILITY_CAP")
		os.Unsetenv("SWAPLENS_RESOLVER_COMMUNITY_FRESHNESS_DAYS")
		os.Unsetenv("SWAPLENS_CACHE_TTL")
		os.Unsetenv("SWAPLENS_CACHE_ASYNC_SWAP_WRITEBACK")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("SWAPLENS_DISCOVERY_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Database.Path != "swaplens.db" {
			t.Errorf("Database.Path = %s, want swaplens.db", cfg.Database.Path)
		}
		if cfg.Discovery.Timeout != 3*time.Second {
			t.Errorf("Discovery.Timeout = %s, want 3s", cfg.Discovery.Timeout)
		}
		if cfg.Resolver.SwapLimit != 5 {
			t.Errorf("Resolver.SwapLimit = %d, want 5", cfg.Resolver.SwapLimit)
		}
		if cfg.Resolver.AvailabilityCap != 5 {
			t.Errorf("Resolver.AvailabilityCap = %d, want 5", cfg.Resolver.AvailabilityCap)
		}
		if cfg.Resolver.CommunityFreshnessDays != 90 {
			t.Errorf("Resolver.CommunityFreshnessDays = %d, want 90", cfg.Resolver.CommunityFreshnessDays)
		}
		if cfg.Cache.TTL != 15*time.Minute {
			t.Errorf("Cache.TTL = %s, want 15m", cfg.Cache.TTL)
		}
		if cfg.Cache.AsyncSwapWriteback {
			t.Error("Cache.AsyncSwapWriteback = true, want false")
		}
	})

	t.Run("reads values from environment", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SWAPLENS_DISCOVERY_API_KEY", "env-key")
		os.Setenv("SWAPLENS_SERVER_PORT", "9090")
		os.Setenv("SWAPLENS_DISCOVERY_TIMEOUT", "2s")
		os.Setenv("SWAPLENS_RESOLVER_SWAP_LIMIT", "3")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Discovery.APIKey != "env-key" {
			t.Errorf("Discovery.APIKey = %s, want env-key", cfg.Discovery.APIKey)
		}
		if cfg.Discovery.Timeout != 2*time.Second {
			t.Errorf("Discovery.Timeout = %s, want 2s", cfg.Discovery.Timeout)
		}
		if cfg.Resolver.SwapLimit != 3 {
			t.Errorf("Resolver.SwapLimit = %d, want 3", cfg.Resolver.SwapLimit)
		}
	})

	t.Run("fails without discovery API key", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() succeeded without API key, want error")
		}
	})

	t.Run("rejects excessive discovery timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SWAPLENS_DISCOVERY_API_KEY", "test-key")
		os.Setenv("SWAPLENS_DISCOVERY_TIMEOUT", "30s")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() accepted a 30s discovery timeout, want error")
		}
	})

	t.Run("rejects non-positive resolver limits", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SWAPLENS_DISCOVERY_API_KEY", "test-key")
		os.Setenv("SWAPLENS_RESOLVER_SWAP_LIMIT", "0")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() accepted a zero swap limit, want error")
		}
	})
}
