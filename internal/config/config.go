package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		ENV  string
		Name string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		LogSQL   bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	HTTP struct {
		Host           string
		Port           string
		AllowedOrigins []string
	}

	Auth struct {
		JWTSecret string
		Issuer    string
		TokenTTL  time.Duration
	}

	Discovery struct {
		BatchSize  int
		SessionTTL time.Duration
	}

	Storage struct {
		Bucket        string
		Region        string
		PublicBaseURL string
		PresignTTL    time.Duration
	}
}

const devSecret = "lunchmatch-dev-secret"

// New builds the configuration from environment variables and defaults.
func New() *Config {
	return build(newViper())
}

// Load is New plus an optional config file (yaml, json, toml, env).
// Environment variables still win over file values.
func Load(path string) (*Config, error) {
	v := newViper()
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return build(v), nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required outside development")
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Discovery.BatchSize <= 0 {
		return errors.New("DISCOVERY_BATCH_SIZE must be positive")
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_NAME", "lunchmatch")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_COMPONENT", "lunchmatch")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "root")
	v.SetDefault("DB_NAME", "lunchmatch")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GRPC_HOST", "127.0.0.1")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("HTTP_HOST", "127.0.0.1")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("AUTH_ISSUER", "lunchmatch")
	v.SetDefault("AUTH_TOKEN_TTL", "24h")

	v.SetDefault("DISCOVERY_BATCH_SIZE", 3)
	v.SetDefault("DISCOVERY_SESSION_TTL", "30m")

	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "/static/")
	v.SetDefault("STORAGE_PRESIGN_TTL", "1h")
	return v
}

func build(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.ENV = strings.ToLower(str(v, "APP_ENV"))
	cfg.App.Name = str(v, "APP_NAME")

	// Logger
	cfg.Log.Level = str(v, "LOG_LEVEL")
	cfg.Log.Format = str(v, "LOG_FORMAT")
	cfg.Log.Component = str(v, "LOG_COMPONENT")
	cfg.Log.Source = isTruthy(v.GetString("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(str(v, "DB_DRIVER"))
	cfg.DB.Host = str(v, "DB_HOST")
	cfg.DB.Port = str(v, "DB_PORT")
	cfg.DB.User = str(v, "DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = str(v, "DB_NAME")
	cfg.DB.LogSQL = isTruthy(v.GetString("DB_LOG_SQL"))
	cfg.DB.DSN = str(v, "DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = buildDSN(cfg)
	}

	// Redis
	cfg.Redis.Addr = str(v, "REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	// Transports
	cfg.GRPC.Host = str(v, "GRPC_HOST")
	cfg.GRPC.Port = str(v, "GRPC_PORT")
	cfg.HTTP.Host = str(v, "HTTP_HOST")
	cfg.HTTP.Port = str(v, "HTTP_PORT")
	cfg.HTTP.AllowedOrigins = splitList(v.GetString("HTTP_ALLOWED_ORIGINS"))

	// Auth
	cfg.Auth.JWTSecret = v.GetString("AUTH_JWT_SECRET")
	if cfg.Auth.JWTSecret == "" && cfg.App.ENV == "development" {
		cfg.Auth.JWTSecret = devSecret
	}
	cfg.Auth.Issuer = str(v, "AUTH_ISSUER")
	cfg.Auth.TokenTTL = v.GetDuration("AUTH_TOKEN_TTL")

	// Discovery
	cfg.Discovery.BatchSize = v.GetInt("DISCOVERY_BATCH_SIZE")
	cfg.Discovery.SessionTTL = v.GetDuration("DISCOVERY_SESSION_TTL")

	// Photo storage
	cfg.Storage.Bucket = str(v, "STORAGE_BUCKET")
	cfg.Storage.Region = str(v, "STORAGE_REGION")
	cfg.Storage.PublicBaseURL = str(v, "STORAGE_PUBLIC_BASE_URL")
	cfg.Storage.PresignTTL = v.GetDuration("STORAGE_PRESIGN_TTL")

	return cfg
}

func buildDSN(cfg *Config) string {
	switch cfg.DB.Driver {
	case "postgres":
		port := cfg.DB.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DB.Host, port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name,
		)
	case "sqlite":
		return cfg.DB.Name + ".db"
	default:
		port := cfg.DB.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, port, cfg.DB.Name,
		)
	}
}

func str(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

