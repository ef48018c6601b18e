package app

import (
	"testing"
	"time"

	"finstar_backend/internal/config"
)

func TestApplyConfigRunsCallbacks(t *testing.T) {
	a := &App{}
	var got *config.Config
	a.RegisterConfigCallback(func(c *config.Config) { got = c })

	updated := &config.Config{}
	a.ApplyConfig(updated)

	if got != updated {
		t.Fatalf("callback did not receive the updated config")
	}
	if a.Config != updated {
		t.Errorf("App.Config not swapped to the updated config")
	}
}

func TestApplyConfigIgnoresUnexpectedType(t *testing.T) {
	a := &App{}
	called := false
	a.RegisterConfigCallback(func(*config.Config) { called = true })

	a.ApplyConfig("not a config")

	if called {
		t.Fatalf("callback ran for a non-config payload")
	}
}

func TestRateLimitParamsDefaults(t *testing.T) {
	maxRequests, window := rateLimitParams(&config.Config{})
	if maxRequests != 100000 || window != time.Minute {
		t.Fatalf("defaults = (%d, %v), want (100000, 1m)", maxRequests, window)
	}

	cfg := &config.Config{}
	cfg.RateLimit.MaxRequests = 50
	cfg.RateLimit.WindowMinutes = 5
	maxRequests, window = rateLimitParams(cfg)
	if maxRequests != 50 || window != 5*time.Minute {
		t.Fatalf("params = (%d, %v), want (50, 5m)", maxRequests, window)
	}
}
