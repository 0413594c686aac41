package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AMQPExchange != "orders" {
		t.Errorf("expected default exchange 'orders', got %q", cfg.AMQPExchange)
	}
	if cfg.MapsTimeout != 10*time.Second {
		t.Errorf("expected 10s maps timeout, got %v", cfg.MapsTimeout)
	}
	if cfg.RateLimitRequests != 30 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("unexpected rate limit defaults: %d per %v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.RecalcWorkers != 4 {
		t.Errorf("expected 4 recalc workers, got %d", cfg.RecalcWorkers)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("MAPS_TIMEOUT", "3s")
	t.Setenv("RECALC_WORKERS", "0")
	t.Setenv("CORS_ORIGINS", "https://painel.example.com, https://menu.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.GoogleMapsAPIKey != "maps-key" {
		t.Errorf("expected maps key from env, got %q", cfg.GoogleMapsAPIKey)
	}
	if cfg.MapsTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.MapsTimeout)
	}
	if cfg.RecalcWorkers != 1 {
		t.Errorf("worker count must be at least 1, got %d", cfg.RecalcWorkers)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://menu.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}
