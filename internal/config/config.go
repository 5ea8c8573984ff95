package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 协议层配置
type Config struct {
	Cloud struct {
		BaseURL      string
		OAuthURL     string
		ClientID     string
		ClientSecret string
	}

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}

	Push struct {
		Heartbeat   time.Duration
		MaxFails    int
		DedupWindow time.Duration
		BackoffBase time.Duration
		BackoffCap  time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Cloud.BaseURL = getEnv("CONNECTLIFE_API_URL", "https://connectlife.hijuconn.com")
	cfg.Cloud.OAuthURL = getEnv("CONNECTLIFE_OAUTH_URL", "https://oauth.hijuconn.com")
	cfg.Cloud.ClientID = getEnv("CONNECTLIFE_CLIENT_ID", "")
	cfg.Cloud.ClientSecret = getEnv("CONNECTLIFE_CLIENT_SECRET", "")

	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.TTL = getEnvDuration("SNAPSHOT_TTL", 24*time.Hour)

	cfg.Push.Heartbeat = getEnvDuration("PUSH_HEARTBEAT", 0)
	cfg.Push.MaxFails = getEnvInt("PUSH_MAX_FAILS", 0)
	cfg.Push.DedupWindow = getEnvDuration("PUSH_DEDUP_WINDOW", 0)
	cfg.Push.BackoffBase = getEnvDuration("PUSH_BACKOFF_BASE", 0)
	cfg.Push.BackoffCap = getEnvDuration("PUSH_BACKOFF_CAP", 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Cloud.ClientID == "" || cfg.Cloud.ClientSecret == "" {
		return nil, fmt.Errorf("CONNECTLIFE_CLIENT_ID and CONNECTLIFE_CLIENT_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
