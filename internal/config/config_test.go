package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOURMATE_AUTH_JWT_SECRET", testSecret)

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.TopN != 12 {
		t.Errorf("top_n = %d, want 12", cfg.Recommend.TopN)
	}
	if cfg.Calendar.TargetPolicy != "lowest_id" {
		t.Errorf("target_policy = %q", cfg.Calendar.TargetPolicy)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("token_ttl = %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TOURMATE_AUTH_JWT_SECRET", "")
	if _, err := LoadFile(""); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
  write_timeout: 30s
auth:
  jwt_secret: ` + testSecret + `
recommend:
  top_n: 20
calendar:
  target_policy: highest_id
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOURMATE_RECOMMEND_TOP_N", "5")
	t.Setenv("TOURMATE_SERVER_ALLOWED_ORIGINS", "tourmate.app, *.tourmate.app")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090 from file", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("write_timeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Recommend.TopN != 5 {
		t.Errorf("top_n = %d, want 5 from env", cfg.Recommend.TopN)
	}
	if cfg.Calendar.TargetPolicy != "highest_id" {
		t.Errorf("target_policy = %q", cfg.Calendar.TargetPolicy)
	}
	if got := cfg.Server.Origins(); len(got) != 2 || got[1] != "*.tourmate.app" {
		t.Errorf("origins = %v", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"top_n zero", func(c *Config) { c.Recommend.TopN = 0 }, "top_n"},
		{"unknown backend", func(c *Config) { c.Recommend.CacheBackend = "memcached" }, "cache_backend"},
		{"unknown policy", func(c *Config) { c.Calendar.TargetPolicy = "newest" }, "target_policy"},
		{"redis without addr", func(c *Config) { c.Recommend.CacheBackend = "redis"; c.Redis.Addr = "" }, "redis.addr"},
		{"half vapid", func(c *Config) { c.Push.VAPIDPublicKey = "pub" }, "vapid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.JWTSecret = testSecret
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"TOURMATE_SERVER_PORT":            "server.port",
		"TOURMATE_AUTH_JWT_SECRET":        "auth.jwt_secret",
		"TOURMATE_RATELIMIT_LOGIN_WINDOW": "ratelimit.login_window",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
