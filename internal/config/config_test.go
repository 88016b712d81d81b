package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Env != EnvDev {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected ttls: %v %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.CookieSecure {
		t.Fatalf("dev must not force secure cookies")
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	body := `{"http_addr":":7000","access_ttl":"5m","redis_db":3,"store":"memory"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	env := envMap(map[string]string{
		"USERAUTH_HTTP_ADDR":       ":7001",
		"USERAUTH_REFRESH_TTL":     "24h",
		"USERAUTH_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	})
	cfg, err := Load([]string{"-config", path, "-addr", ":7002"}, env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7002" {
		t.Fatalf("flag should win, got %q", cfg.HTTPAddr)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("json access ttl not applied: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 24*time.Hour {
		t.Fatalf("env refresh ttl not applied: %v", cfg.RefreshTTL)
	}
	if cfg.RedisDB != 3 || cfg.Store != "memory" {
		t.Fatalf("json values lost: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	_, err := Load(nil, envMap(map[string]string{"USERAUTH_ACCESS_TTL": "soon"}))
	if err == nil || !strings.Contains(err.Error(), "ACCESS_TTL") {
		t.Fatalf("expected ACCESS_TTL error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	c := base()
	c.RefreshSecret = c.AccessSecret
	if err := c.Validate(); err == nil {
		t.Fatalf("identical secrets must be rejected")
	}

	c = base()
	c.RefreshTTL = c.AccessTTL
	if err := c.Validate(); err == nil {
		t.Fatalf("refresh ttl must exceed access ttl")
	}

	c = base()
	c.Store = "sqlite"
	if err := c.Validate(); err == nil {
		t.Fatalf("unknown store must be rejected")
	}

	c = base()
	c.Env = "PROD"
	if err := c.Validate(); err == nil {
		t.Fatalf("dev secrets must be rejected in prod")
	}

	c = base()
	c.Env = EnvProd
	c.AccessSecret = "prod-access"
	c.RefreshSecret = "prod-refresh"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !c.CookieSecure {
		t.Fatalf("prod must force secure cookies")
	}
}

func TestConfigFileFlag(t *testing.T) {
	cases := map[string][]string{
		"a.json": {"-config", "a.json"},
		"b.json": {"--config=b.json"},
		"":       {"-addr", ":1", "config"},
	}
	for want, args := range cases {
		if got := configFileFlag(args); got != want {
			t.Fatalf("configFileFlag(%v)=%q, want %q", args, got, want)
		}
	}
}
