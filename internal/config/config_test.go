package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr=%q", cfg.Server.HTTPAddr)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level=%q", cfg.Log.Level)
	}
	// Season windows are KST; a mismatched session zone shifts DATE
	// comparisons and drops each season's last day.
	if cfg.DB.Timezone != "Asia/Seoul" {
		t.Fatalf("db timezone=%q want Asia/Seoul", cfg.DB.Timezone)
	}
	if !cfg.Cron.Enabled {
		t.Fatalf("cron should default enabled")
	}
	if cfg.Tier.RefreshTimeout != 5*time.Minute {
		t.Fatalf("refresh_timeout=%v", cfg.Tier.RefreshTimeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VM_LOG_LEVEL", "debug")
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level=%q want debug", cfg.Log.Level)
	}
}
