package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all service configuration. Values come from an optional TOML
// file named by WORKLOG_CONFIG, then from environment variables, which win.
type Config struct {
	Port            string   `toml:"port"`
	LogLevel        string   `toml:"log_level"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	PostgresDSN     string   `toml:"postgres_dsn"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDB         string   `toml:"mongo_db"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	MinioEndpoint   string   `toml:"minio_endpoint"`
	MinioAccessKey  string   `toml:"minio_access_key"`
	MinioSecretKey  string   `toml:"minio_secret_key"`
	MinioBucket     string   `toml:"minio_bucket"`
	MinioUseSSL     bool     `toml:"minio_use_ssl"`
	GeminiAPIKey    string   `toml:"gemini_api_key"`
	GeminiBaseURL   string   `toml:"gemini_base_url"`
	DefaultModel    string   `toml:"default_model"`
	UpstreamTimeout Duration `toml:"upstream_timeout"`
	GenerateRPM     int      `toml:"generate_rpm"`
	TokenSecret     string   `toml:"token_secret"`
	TokenTTL        Duration `toml:"token_ttl"`
	UserCacheTTL    Duration `toml:"user_cache_ttl"`
}

// Duration lets TOML files spell durations as "30s" or "720h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the development defaults. Empty store settings select
// the in-memory stores.
func Defaults() *Config {
	return &Config{
		Port:            "4000",
		LogLevel:        "info",
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		MongoDB:         "worklog",
		MinioBucket:     "worklog-reports",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com",
		DefaultModel:    "gemini-2.5-flash",
		UpstreamTimeout: Duration{2 * time.Minute},
		GenerateRPM:     20,
		TokenTTL:        Duration{30 * 24 * time.Hour},
		UserCacheTTL:    Duration{5 * time.Minute},
	}
}

// Load builds the configuration from defaults, the optional TOML file and
// the environment.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("WORKLOG_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getenv("PORT", c.Port)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	c.PostgresDSN = getenv("POSTGRES_DSN", c.PostgresDSN)
	c.MongoURI = getenv("MONGO_URI", c.MongoURI)
	c.MongoDB = getenv("MONGO_DB", c.MongoDB)
	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getenv("REDIS_PASSWORD", c.RedisPassword)
	c.MinioEndpoint = getenv("MINIO_ENDPOINT", c.MinioEndpoint)
	c.MinioAccessKey = getenv("MINIO_ACCESS_KEY", c.MinioAccessKey)
	c.MinioSecretKey = getenv("MINIO_SECRET_KEY", c.MinioSecretKey)
	c.MinioBucket = getenv("MINIO_BUCKET", c.MinioBucket)
	c.MinioUseSSL = getenvBool("MINIO_USE_SSL", c.MinioUseSSL)
	c.GeminiAPIKey = getenv("GEMINI_API_KEY", getenv("API_KEY", c.GeminiAPIKey))
	c.GeminiBaseURL = getenv("GEMINI_BASE_URL", c.GeminiBaseURL)
	c.DefaultModel = getenv("DEFAULT_MODEL", c.DefaultModel)
	c.UpstreamTimeout.Duration = getenvDuration("UPSTREAM_TIMEOUT", c.UpstreamTimeout.Duration)
	c.GenerateRPM = getenvInt("GENERATE_RPM", c.GenerateRPM)
	c.TokenSecret = getenv("TOKEN_SECRET", c.TokenSecret)
	c.TokenTTL.Duration = getenvDuration("TOKEN_TTL", c.TokenTTL.Duration)
	c.UserCacheTTL.Duration = getenvDuration("USER_CACHE_TTL", c.UserCacheTTL.Duration)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
