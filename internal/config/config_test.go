package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ckd_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("port = %q, want 8000", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("env = %q, want development", cfg.Env)
	}
	if len(cfg.CORSOrigins) != 4 {
		t.Errorf("cors origins = %v, want 4 local frontend origins", cfg.CORSOrigins)
	}
	if cfg.JWTIssuer != "ckd-risk-api" {
		t.Errorf("jwt issuer = %q, want ckd-risk-api", cfg.JWTIssuer)
	}
	if cfg.TokenTTLMinutes != 60 {
		t.Errorf("token ttl = %d, want 60", cfg.TokenTTLMinutes)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ckd_test")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTLMinutes: 60}
	if err := cfg.Validate(); err == nil {
		t.Error("production without JWT_SECRET should fail validation")
	}

	cfg.JWTSecret = "something"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.TokenTTLMinutes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero token TTL should fail validation")
	}

	dev := &Config{Env: "development", TokenTTLMinutes: 60}
	if err := dev.Validate(); err != nil {
		t.Errorf("dev without secret should pass, got %v", err)
	}
}
