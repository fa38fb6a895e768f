package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the catalog service.
type Config struct {
	AppPort  string
	LogLevel string
	HostAPI  string

	DBDriver    string
	DatabaseDSN string

	StorageDriver  string
	StaticDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr string
	CacheTTL  time.Duration

	RabbitMQURL string

	SeedEnabled     bool
	SeedConcurrency int
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HOST_API", "http://localhost:8080/api")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:catalog.db?_foreign_keys=on&_busy_timeout=5000")
	v.SetDefault("STORAGE_DRIVER", "disk")
	v.SetDefault("STATIC_DIR", "static/products")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "product-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SEED_ENABLED", true)
	v.SetDefault("SEED_CONCURRENCY", 4)
}

// Load reads configuration from v, falling back to defaults and the environment.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HostAPI:         v.GetString("HOST_API"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		StorageDriver:   v.GetString("STORAGE_DRIVER"),
		StaticDir:       v.GetString("STATIC_DIR"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		SeedEnabled:     v.GetBool("SEED_ENABLED"),
		SeedConcurrency: v.GetInt("SEED_CONCURRENCY"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "disk", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SeedConcurrency <= 0 {
		return fmt.Errorf("SEED_CONCURRENCY must be positive, got %d", c.SeedConcurrency)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}
