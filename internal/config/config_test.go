package config_test

import (
	"testing"
	"time"

	"github.com/okellodavid/revealhub/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Fatalf("got port %d, want 8080", cfg.Port)
	}

	if cfg.SelectionLimit != 3 {
		t.Fatalf("got selection limit %d, want 3", cfg.SelectionLimit)
	}

	if cfg.SelectionWindow() != 24*time.Hour {
		t.Fatalf("got window %v, want 24h", cfg.SelectionWindow())
	}

	if cfg.TokenTTL() != 7*24*time.Hour {
		t.Fatalf("got token ttl %v, want 168h", cfg.TokenTTL())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SELECTION_LIMIT", "5")
	t.Setenv("SELECTION_WINDOW_HOURS", "12")
	t.Setenv("TOKEN_TTL_DAYS", "1")
	t.Setenv("HIDDEN_NUMBERS", "3, 7,9")
	t.Setenv("REVEAL_AT", "2026-12-01T00:00:00Z")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := config.Load()

	if cfg.Port != 9090 {
		t.Fatalf("got port %d, want 9090", cfg.Port)
	}

	if cfg.SelectionLimit != 5 {
		t.Fatalf("got selection limit %d, want 5", cfg.SelectionLimit)
	}

	if cfg.SelectionWindow() != 12*time.Hour {
		t.Fatalf("got window %v, want 12h", cfg.SelectionWindow())
	}

	if cfg.TokenTTL() != 24*time.Hour {
		t.Fatalf("got token ttl %v, want 24h", cfg.TokenTTL())
	}

	want := []int{3, 7, 9}
	if len(cfg.HiddenNumbers) != len(want) {
		t.Fatalf("got hidden numbers %v, want %v", cfg.HiddenNumbers, want)
	}
	for i, n := range want {
		if cfg.HiddenNumbers[i] != n {
			t.Fatalf("got hidden numbers %v, want %v", cfg.HiddenNumbers, want)
		}
	}

	if cfg.RevealAt.IsZero() {
		t.Fatalf("reveal date should be parsed")
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("got origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("HIDDEN_NUMBERS", "3,abc,9")
	t.Setenv("REVEAL_AT", "next tuesday")

	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Fatalf("malformed port should fall back to 8080, got %d", cfg.Port)
	}

	if len(cfg.HiddenNumbers) != 2 {
		t.Fatalf("malformed entries should be skipped, got %v", cfg.HiddenNumbers)
	}

	if !cfg.RevealAt.IsZero() {
		t.Fatalf("malformed reveal date should be zero, got %v", cfg.RevealAt)
	}
}
