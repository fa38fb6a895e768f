package config_test

import (
	"testing"
	"time"

	"catalog/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "disk", cfg.StorageDriver)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.SeedConcurrency)
	assert.True(t, cfg.SeedEnabled)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=catalog dbname=catalog sslmode=disable")
	t.Setenv("SEED_CONCURRENCY", "8")
	t.Setenv("SEED_ENABLED", "false")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=catalog dbname=catalog sslmode=disable", cfg.DatabaseDSN)
	assert.Equal(t, 8, cfg.SeedConcurrency)
	assert.False(t, cfg.SeedEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := config.Load(v)
	assert.ErrorContains(t, err, "DB_DRIVER")

	v = viper.New()
	v.Set("SEED_CONCURRENCY", 0)
	_, err = config.Load(v)
	assert.ErrorContains(t, err, "SEED_CONCURRENCY")

	v = viper.New()
	v.Set("STORAGE_DRIVER", "ftp")
	_, err = config.Load(v)
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
