package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("TIMELINE_OVERFETCH_MULTIPLIER", "")
	t.Setenv("TIMELINE_OVERFETCH_CAP", "")
	t.Setenv("TIMELINE_SOURCE_TIMEOUT", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("port: want=8080 got=%s", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("default env should be development")
	}
	if cfg.OverfetchMultiplier != 3 {
		t.Fatalf("overfetch multiplier: want=3 got=%d", cfg.OverfetchMultiplier)
	}
	if cfg.OverfetchCap != 1000 {
		t.Fatalf("overfetch cap: want=1000 got=%d", cfg.OverfetchCap)
	}
	if cfg.SourceTimeout != 5*time.Second {
		t.Fatalf("source timeout: want=5s got=%s", cfg.SourceTimeout)
	}
	if cfg.RedisURL == "" {
		t.Fatalf("redis url should default for development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIMELINE_OVERFETCH_MULTIPLIER", "5")
	t.Setenv("TIMELINE_OVERFETCH_CAP", "250")
	t.Setenv("TIMELINE_SOURCE_TIMEOUT", "2s")

	cfg := Load()

	if cfg.OverfetchMultiplier != 5 {
		t.Fatalf("overfetch multiplier: want=5 got=%d", cfg.OverfetchMultiplier)
	}
	if cfg.OverfetchCap != 250 {
		t.Fatalf("overfetch cap: want=250 got=%d", cfg.OverfetchCap)
	}
	if cfg.SourceTimeout != 2*time.Second {
		t.Fatalf("source timeout: want=2s got=%s", cfg.SourceTimeout)
	}
}

func TestLoadClampsBadTuning(t *testing.T) {
	t.Setenv("TIMELINE_OVERFETCH_MULTIPLIER", "0")
	t.Setenv("TIMELINE_OVERFETCH_CAP", "-10")

	cfg := Load()

	if cfg.OverfetchMultiplier != 1 {
		t.Fatalf("multiplier floor: want=1 got=%d", cfg.OverfetchMultiplier)
	}
	if cfg.OverfetchCap != 1 {
		t.Fatalf("cap floor: want=1 got=%d", cfg.OverfetchCap)
	}
}
