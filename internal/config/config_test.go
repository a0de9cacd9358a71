package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("STATIC_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, time.Hour)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, 5*time.Minute)
	}
	if cfg.StaticDir != "static" {
		t.Errorf("StaticDir = %q, want %q", cfg.StaticDir, "static")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SWEEP_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, 30*time.Minute)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, time.Minute)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "abc")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on an unparsable duration")
	}
}

func TestLoad_NonPositiveTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a zero session TTL")
	}
}
