package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("expected default session TTL 24h, got %v", cfg.Session.TTL)
	}
	if cfg.Session.ReapInterval != time.Minute {
		t.Errorf("expected default reap interval 1m, got %v", cfg.Session.ReapInterval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("expected session TTL 30m, got %v", cfg.Session.TTL)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		User:     "atelier",
		Password: "p@ss/word",
		Name:     "atelier",
	}

	dsn := d.DSN()
	if !strings.Contains(dsn, "tcp(db.internal:3306)") {
		t.Errorf("expected default port appended, got %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime enabled, got %s", dsn)
	}
	if !strings.HasPrefix(dsn, "atelier:") {
		t.Errorf("expected user in DSN, got %s", dsn)
	}
}

func TestDatabaseConfig_DSN_Override(t *testing.T) {
	d := DatabaseConfig{
		Host:        "ignored",
		dsnOverride: "user:pass@tcp(other:3306)/db",
	}

	if dsn := d.DSN(); dsn != "user:pass@tcp(other:3306)/db" {
		t.Errorf("expected DATABASE_URL to win, got %s", dsn)
	}
}

func TestDatabaseConfig_DSN_ExplicitPort(t *testing.T) {
	d := DatabaseConfig{Host: "db.internal:3307", User: "u", Password: "p", Name: "n"}

	if dsn := d.DSN(); !strings.Contains(dsn, "tcp(db.internal:3307)") {
		t.Errorf("expected explicit port preserved, got %s", dsn)
	}
}
