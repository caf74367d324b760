package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults to memory", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory {
			t.Fatalf("unexpected default storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("postgres accepted", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "dynamo")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_AnnouncerWebhookParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("ANNOUNCER_WEBHOOK_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AnnouncerWebhookEnabled {
			t.Fatalf("expected AnnouncerWebhookEnabled=false by default")
		}
	})

	t.Run("enabled requires url", func(t *testing.T) {
		t.Setenv("ANNOUNCER_WEBHOOK_ENABLED", "true")
		t.Setenv("ANNOUNCER_WEBHOOK_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ANNOUNCER_WEBHOOK_ENABLED=true without url")
		}
	})

	t.Run("enabled with values", func(t *testing.T) {
		t.Setenv("ANNOUNCER_WEBHOOK_ENABLED", "true")
		t.Setenv("ANNOUNCER_WEBHOOK_URL", "https://hooks.example.com/chef-league")
		t.Setenv("ANNOUNCER_WEBHOOK_TOKEN", "hook-token")
		t.Setenv("ANNOUNCER_WEBHOOK_TIMEOUT", "4s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AnnouncerWebhookURL != "https://hooks.example.com/chef-league" {
			t.Fatalf("unexpected webhook url: %q", cfg.AnnouncerWebhookURL)
		}
		if cfg.AnnouncerWebhookToken != "hook-token" {
			t.Fatalf("unexpected webhook token")
		}
		if cfg.AnnouncerWebhookTimeout != 4*time.Second {
			t.Fatalf("unexpected webhook timeout: %s", cfg.AnnouncerWebhookTimeout)
		}
	})
}

func TestLoad_DraftMaxRetries(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default", func(t *testing.T) {
		t.Setenv("DRAFT_MAX_RETRIES", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DraftMaxRetries != 3 {
			t.Fatalf("unexpected default draft retries: %d", cfg.DraftMaxRetries)
		}
	})

	t.Run("must be positive", func(t *testing.T) {
		t.Setenv("DRAFT_MAX_RETRIES", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for DRAFT_MAX_RETRIES=0")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != time.Minute {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_AccountCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ACCOUNT_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("ACCOUNT_CIRCUIT_OPEN_TIMEOUT", "20s")
	t.Setenv("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AccountCircuitFailures != 7 {
		t.Fatalf("unexpected circuit failure count: %d", cfg.AccountCircuitFailures)
	}
	if cfg.AccountCircuitOpenTimeout != 20*time.Second {
		t.Fatalf("unexpected circuit open timeout: %s", cfg.AccountCircuitOpenTimeout)
	}
	if cfg.AccountCircuitHalfOpenMax != 3 {
		t.Fatalf("unexpected half open max: %d", cfg.AccountCircuitHalfOpenMax)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "chef-league-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "chef-league-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}
