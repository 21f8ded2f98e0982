// Package config loads process configuration in three layers: built-in
// defaults, an optional YAML file, then TOURMATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/dukerupert/tourmate/internal/validation"
)

const (
	EnvPrefix        = "TOURMATE_"
	ConfigPathEnvVar = "TOURMATE_CONFIG"
	defaultFile      = "config.yaml"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Auth      AuthConfig      `koanf:"auth"`
	Recommend RecommendConfig `koanf:"recommend"`
	Redis     RedisConfig     `koanf:"redis"`
	Calendar  CalendarConfig  `koanf:"calendar"`
	Push      PushConfig      `koanf:"push"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port           int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	AllowedOrigins string        `koanf:"allowed_origins"`
}

// Origins splits AllowedOrigins on commas.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"min=1m"`
	Issuer    string        `koanf:"issuer"`
}

type RecommendConfig struct {
	TopN         int    `koanf:"top_n" validate:"min=1"`
	CacheBackend string `koanf:"cache_backend" validate:"oneof=memory redis"`
	CacheSize    int    `koanf:"cache_size" validate:"min=1"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

type CalendarConfig struct {
	TargetPolicy string `koanf:"target_policy" validate:"oneof=lowest_id highest_id"`
}

type PushConfig struct {
	VAPIDPublicKey  string `koanf:"vapid_public_key"`
	VAPIDPrivateKey string `koanf:"vapid_private_key"`
	Subscriber      string `koanf:"subscriber"`
}

type RateLimitConfig struct {
	LoginAttempts int           `koanf:"login_attempts" validate:"min=1"`
	LoginWindow   time.Duration `koanf:"login_window" validate:"min=1s"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Database:  DatabaseConfig{Path: "tourmate.db"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Auth:      AuthConfig{TokenTTL: 24 * time.Hour, Issuer: "tourmate"},
		Recommend: RecommendConfig{TopN: 12, CacheBackend: "memory", CacheSize: 10000},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Calendar:  CalendarConfig{TargetPolicy: "lowest_id"},
		RateLimit: RateLimitConfig{LoginAttempts: 5, LoginWindow: time.Minute},
	}
}

// Load reads configuration from defaults, the file named by TOURMATE_CONFIG
// (or ./config.yaml when present), and the environment.
func Load() (*Config, error) {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		if _, err := os.Stat(defaultFile); err == nil {
			path = defaultFile
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file; an empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps TOURMATE_SECTION_SOME_KEY to section.some_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if c.Recommend.CacheBackend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when recommend.cache_backend is redis")
	}
	if (c.Push.VAPIDPublicKey == "") != (c.Push.VAPIDPrivateKey == "") {
		return fmt.Errorf("push.vapid_public_key and push.vapid_private_key must be set together")
	}
	return nil
}
