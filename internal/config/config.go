package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the report service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	QueryTimeout   time.Duration
	LookupCacheTTL time.Duration
	DownloadLimit  int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("RELATORIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Relatorio API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("query.timeout", "15s")
	v.SetDefault("lookup.cache_ttl", "5m")
	v.SetDefault("download.limit", 10)

	queryTimeout, err := time.ParseDuration(v.GetString("query.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid query timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("lookup.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid lookup cache ttl: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		JWTSecret:      v.GetString("jwt.secret"),
		QueryTimeout:   queryTimeout,
		LookupCacheTTL: cacheTTL,
		DownloadLimit:  v.GetInt("download.limit"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 15 * time.Second
	}

	if cfg.DownloadLimit <= 0 {
		cfg.DownloadLimit = 10
	}

	return cfg, nil
}
