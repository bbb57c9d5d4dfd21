package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SessionStorageEnv      = "env"
	SessionStoragePostgres = "postgres"
	SessionStorageRedis    = "redis"
)

type Config struct {
	ShopDomain        string
	AccessToken       string
	APIVersion        string
	APISecret         string
	DatabaseURL       string
	RedisURL          string
	SessionStorage    string
	ListenAddr        string
	PageSize          int
	DeleteConcurrency int
	RequestsPerSecond float64
	AuditEnabled      bool
	AllowedOrigins    []string
}

// Load reads .env files when present and then the process environment.
// Malformed numbers are reported by Validate, not here.
func Load() (*Config, error) {
	// .env from the project root, then the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{
		ShopDomain:     os.Getenv("SHOPIFY_SHOP"),
		AccessToken:    os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		APIVersion:     getEnv("SHOPIFY_API_VERSION", "2024-10"),
		APISecret:      os.Getenv("SHOPIFY_API_SECRET"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SessionStorage: getEnv("SESSION_STORAGE", SessionStorageEnv),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "https://admin.shopify.com")),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.DeleteConcurrency, err = getEnvInt("DELETE_CONCURRENCY", 5); err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond, err = getEnvFloat("API_REQUESTS_PER_SECOND", 2); err != nil {
		return nil, err
	}
	if cfg.AuditEnabled, err = getEnvBool("AUDIT_ENABLED", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and that the chosen session storage is reachable by
// configuration.
func (c *Config) Validate() error {
	if c.PageSize <= 0 || c.PageSize > 250 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 250 (got %d)", c.PageSize)
	}
	if c.DeleteConcurrency <= 0 || c.DeleteConcurrency > 50 {
		return fmt.Errorf("DELETE_CONCURRENCY must be between 1 and 50 (got %d)", c.DeleteConcurrency)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("API_REQUESTS_PER_SECOND cannot be negative (got %v)", c.RequestsPerSecond)
	}

	switch c.SessionStorage {
	case SessionStorageEnv:
	case SessionStoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres session storage")
		}
	case SessionStorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for redis session storage")
		}
	default:
		return fmt.Errorf("SESSION_STORAGE must be one of env, postgres, redis (got %q)", c.SessionStorage)
	}

	if c.AuditEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when AUDIT_ENABLED is set")
	}
	return nil
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", k, err)
	}
	return n, nil
}

func getEnvFloat(k string, d float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", k, err)
	}
	return f, nil
}

func getEnvBool(k string, d bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", k, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
