package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VSM_DSN", "") // que no se cuele del entorno

	c, err := Load("")
	if err == nil {
		t.Fatal("postgres sin DSN debería fallar la validación")
	}

	t.Setenv("VSM_STORAGE_DRIVER", "memory")
	c, err = Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":8081" {
		t.Fatalf("addr default: %s", c.Server.Addr)
	}
	if c.Lifecycle.TokenLifespan != 72*time.Hour {
		t.Fatalf("token lifespan default: %v", c.Lifecycle.TokenLifespan)
	}
	if c.Lifecycle.InviteTTL != 5*time.Minute || c.Lifecycle.GuestGracePeriod != 10*time.Minute {
		t.Fatalf("invite defaults: %v %v", c.Lifecycle.InviteTTL, c.Lifecycle.GuestGracePeriod)
	}
	if c.Lifecycle.ReconcileInterval != 3*time.Minute {
		t.Fatalf("reconcile default: %v", c.Lifecycle.ReconcileInterval)
	}
	if c.Rate.Login.Limit != 10 || c.Rate.Login.Window != time.Minute {
		t.Fatalf("rate defaults: %+v", c.Rate.Login)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9999"
  domain: vpn.test
storage:
  driver: memory
lifecycle:
  invite_ttl: 90s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("VSM_INVITE_TTL", "30s")
	t.Setenv("VSM_DOMAIN", "override.test")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("yaml addr: %s", c.Server.Addr)
	}
	// El env pisa al YAML.
	if c.Lifecycle.InviteTTL != 30*time.Second {
		t.Fatalf("env should win: %v", c.Lifecycle.InviteTTL)
	}
	if c.Server.Domain != "override.test" {
		t.Fatalf("env should win: %s", c.Server.Domain)
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("VSM_STORAGE_DRIVER", "mongodb")
	if _, err := Load(""); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestPGConnMaxLifetime(t *testing.T) {
	var c Config
	if c.PGConnMaxLifetime() != 0 {
		t.Fatal("unset lifetime should be zero")
	}
	c.Storage.Postgres.ConnMaxLifetime = "30m"
	if c.PGConnMaxLifetime() != 30*time.Minute {
		t.Fatalf("parsed: %v", c.PGConnMaxLifetime())
	}
}
