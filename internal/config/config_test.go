package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SourceTimeout != 10*time.Second {
		t.Errorf("SourceTimeout = %v, want 10s", cfg.SourceTimeout)
	}
	if cfg.MaxNewListings != 4 {
		t.Errorf("MaxNewListings = %d, want 4", cfg.MaxNewListings)
	}
	if cfg.GreenhouseAPIBaseURL == "" || cfg.LeverAPIBaseURL == "" {
		t.Error("ATS base URLs must have defaults")
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAX_NEW_LISTINGS", "10")
	t.Setenv("SOURCE_TIMEOUT", "30s")
	t.Setenv("HOST_RATE_LIMIT", "0.5")
	t.Setenv("CLICKHOUSE_DSN", "ch1:9000,ch2:9000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.MaxNewListings != 10 {
		t.Errorf("MaxNewListings = %d, want 10", cfg.MaxNewListings)
	}
	if cfg.SourceTimeout != 30*time.Second {
		t.Errorf("SourceTimeout = %v, want 30s", cfg.SourceTimeout)
	}
	if cfg.HostRateLimit != 0.5 {
		t.Errorf("HostRateLimit = %f, want 0.5", cfg.HostRateLimit)
	}
	if cfg.ClickHouseDSN != "ch1:9000,ch2:9000" {
		t.Errorf("ClickHouseDSN = %q", cfg.ClickHouseDSN)
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_NEW_LISTINGS", "lots")
	t.Setenv("SOURCE_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxNewListings != 4 {
		t.Errorf("MaxNewListings = %d, want default on parse failure", cfg.MaxNewListings)
	}
	if cfg.SourceTimeout != 10*time.Second {
		t.Errorf("SourceTimeout = %v, want default on parse failure", cfg.SourceTimeout)
	}
}
