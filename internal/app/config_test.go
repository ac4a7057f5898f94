package app

import (
	"testing"
	"time"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"UPSTREAM_URL", "FETCH_TTL", "SEARCH_TTL", "REQUEST_TIMEOUT", "SEARCH_SWEEP_INTERVAL", "UPSTREAM_RETRIES", "COALESCE_FETCHES"} {
		t.Setenv(k, "")
	}
	t.Setenv("ADMIN_SECRET", "shh")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg.UpstreamURL != DefaultUpstreamURL {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.AdminSecret != "shh" {
		t.Errorf("AdminSecret = %q, want %q", cfg.AdminSecret, "shh")
	}
	if cfg.FetchTTL != 10*time.Minute || cfg.SearchTTL != 10*time.Minute {
		t.Errorf("TTLs = %s/%s, want 10m/10m", cfg.FetchTTL, cfg.SearchTTL)
	}
	if cfg.CoalesceFetches || cfg.SearchSweepInterval != 0 || cfg.UpstreamRetries != 0 {
		t.Errorf("hardening options should be off by default: %+v", cfg)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "http://example.test/blogs")
	t.Setenv("FETCH_TTL", "30s")
	t.Setenv("SEARCH_TTL", "1m")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("SEARCH_SWEEP_INTERVAL", "5m")
	t.Setenv("UPSTREAM_RETRIES", "3")
	t.Setenv("COALESCE_FETCHES", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg.UpstreamURL != "http://example.test/blogs" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.FetchTTL != 30*time.Second || cfg.SearchTTL != time.Minute || cfg.RequestTimeout != 2*time.Second {
		t.Errorf("durations = %s %s %s", cfg.FetchTTL, cfg.SearchTTL, cfg.RequestTimeout)
	}
	if cfg.SearchSweepInterval != 5*time.Minute {
		t.Errorf("SearchSweepInterval = %s", cfg.SearchSweepInterval)
	}
	if cfg.UpstreamRetries != 3 || !cfg.CoalesceFetches {
		t.Errorf("UpstreamRetries = %d, CoalesceFetches = %v", cfg.UpstreamRetries, cfg.CoalesceFetches)
	}
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		env, val string
	}{
		{"FETCH_TTL", "soon"},
		{"FETCH_TTL", "0s"},
		{"SEARCH_TTL", "-1m"},
		{"UPSTREAM_RETRIES", "many"},
		{"UPSTREAM_RETRIES", "-1"},
		{"COALESCE_FETCHES", "perhaps"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.val, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := ConfigFromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.env, tt.val)
			}
		})
	}
}
