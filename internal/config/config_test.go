package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  addr: ":9000"
database:
  dsn: "file:test.db"
jwt:
  secret: "unit-test-secret"
  expiry-hours: 2
`)
	if errWrite := os.WriteFile(path, content, 0600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "file:test.db" {
		t.Fatalf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.JWT.Expiry().Hours() != 2 {
		t.Fatalf("unexpected expiry %v", cfg.JWT.Expiry())
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("default log level lost: %q", cfg.Log.Level)
	}
}

func TestLoadMissingSecretFails(t *testing.T) {
	t.Setenv("RUBRICHUB_JWT_SECRET", "")
	if _, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml")); errLoad == nil {
		t.Fatalf("expected error for missing jwt secret")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RUBRICHUB_JWT_SECRET", "env-secret")
	t.Setenv("RUBRICHUB_DSN", "file:env.db")

	cfg, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.JWT.Secret != "env-secret" || cfg.Database.DSN != "file:env.db" {
		t.Fatalf("environment overrides not applied: %+v", cfg)
	}
}
