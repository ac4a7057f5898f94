package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultUpstreamURL is the blog collection endpoint.
const DefaultUpstreamURL = "https://intent-kit-16.hasura.app/api/rest/blogs"

// Config holds runtime settings for the server.
type Config struct {
	UpstreamURL string
	AdminSecret string

	FetchTTL  time.Duration
	SearchTTL time.Duration

	UserAgent       string
	RequestTimeout  time.Duration
	UpstreamRetries int

	// CoalesceFetches collapses concurrent fetch-cache misses into a single
	// upstream call. Off by default: every miss issues its own call.
	CoalesceFetches bool

	// SearchSweepInterval enables periodic removal of stale search entries.
	// Zero leaves the search cache to grow for the life of the process.
	SearchSweepInterval time.Duration
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		UpstreamURL:    DefaultUpstreamURL,
		FetchTTL:       10 * time.Minute,
		SearchTTL:      10 * time.Minute,
		UserAgent:      "blogstats/1.0",
		RequestTimeout: 15 * time.Second,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies any overrides found in
// the environment.
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("UPSTREAM_URL"); ok && v != "" {
		cfg.UpstreamURL = v
	}
	cfg.AdminSecret = os.Getenv("ADMIN_SECRET")

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"FETCH_TTL", &cfg.FetchTTL},
		{"SEARCH_TTL", &cfg.SearchTTL},
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"SEARCH_SWEEP_INTERVAL", &cfg.SearchSweepInterval},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.env)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	if v, ok := os.LookupEnv("UPSTREAM_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("UPSTREAM_RETRIES: %w", err)
		}
		cfg.UpstreamRetries = n
	}
	if v, ok := os.LookupEnv("COALESCE_FETCHES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COALESCE_FETCHES: %w", err)
		}
		cfg.CoalesceFetches = b
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the caches and client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.UpstreamURL == "":
		return fmt.Errorf("upstream url is required")
	case c.FetchTTL <= 0:
		return fmt.Errorf("fetch ttl must be positive, got %s", c.FetchTTL)
	case c.SearchTTL <= 0:
		return fmt.Errorf("search ttl must be positive, got %s", c.SearchTTL)
	case c.UpstreamRetries < 0:
		return fmt.Errorf("upstream retries must not be negative, got %d", c.UpstreamRetries)
	case c.SearchSweepInterval < 0:
		return fmt.Errorf("search sweep interval must not be negative, got %s", c.SearchSweepInterval)
	}
	return nil
}
