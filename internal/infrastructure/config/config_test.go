package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CHB_APP_NAME":                     os.Getenv("CHB_APP_NAME"),
		"CHB_APP_ENV":                      os.Getenv("CHB_APP_ENV"),
		"CHB_APP_PORT":                     os.Getenv("CHB_APP_PORT"),
		"CHB_DATABASE_HOST":                os.Getenv("CHB_DATABASE_HOST"),
		"CHB_DATABASE_PORT":                os.Getenv("CHB_DATABASE_PORT"),
		"CHB_DATABASE_USER":                os.Getenv("CHB_DATABASE_USER"),
		"CHB_DATABASE_PASSWORD":            os.Getenv("CHB_DATABASE_PASSWORD"),
		"CHB_DATABASE_DBNAME":              os.Getenv("CHB_DATABASE_DBNAME"),
		"CHB_DATABASE_MAX_OPEN_CONNS":      os.Getenv("CHB_DATABASE_MAX_OPEN_CONNS"),
		"CHB_DATABASE_MAX_IDLE_CONNS":      os.Getenv("CHB_DATABASE_MAX_IDLE_CONNS"),
		"CHB_SYNC_MAX_CATALOG_ITEMS":       os.Getenv("CHB_SYNC_MAX_CATALOG_ITEMS"),
		"CHB_SYNC_PAGE_SIZE":               os.Getenv("CHB_SYNC_PAGE_SIZE"),
		"CHB_CHANNELS_NAVER_ENABLED":       os.Getenv("CHB_CHANNELS_NAVER_ENABLED"),
		"CHB_CHANNELS_NAVER_CLIENT_ID":     os.Getenv("CHB_CHANNELS_NAVER_CLIENT_ID"),
		"CHB_CHANNELS_NAVER_CLIENT_SECRET": os.Getenv("CHB_CHANNELS_NAVER_CLIENT_SECRET"),
		"CHB_CHANNELS_COUPANG_ENABLED":     os.Getenv("CHB_CHANNELS_COUPANG_ENABLED"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "channelbridge-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "channelbridge", cfg.Database.DBName)
		assert.Equal(t, 1000, cfg.Sync.MaxCatalogItems)
		assert.Equal(t, 100, cfg.Sync.PageSize)
		assert.Equal(t, 24*time.Hour, cfg.Sync.ChangeWindow)
		assert.Equal(t, "https://api.commerce.naver.com", cfg.Channels.Naver.BaseURL)
		assert.False(t, cfg.Channels.Naver.Enabled)
	})

	t.Run("loads values from environment variables with CHB prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHB_APP_NAME", "test-app")
		os.Setenv("CHB_APP_PORT", "9000")
		os.Setenv("CHB_DATABASE_HOST", "testdb.local")
		os.Setenv("CHB_DATABASE_PORT", "5433")
		os.Setenv("CHB_SYNC_MAX_CATALOG_ITEMS", "200")
		os.Setenv("CHB_SYNC_PAGE_SIZE", "50")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 200, cfg.Sync.MaxCatalogItems)
		assert.Equal(t, 50, cfg.Sync.PageSize)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHB_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CHB_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("enabled channel requires credentials", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHB_CHANNELS_NAVER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channels.naver")
	})

	t.Run("enabled channel with credentials passes", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHB_CHANNELS_NAVER_ENABLED", "true")
		os.Setenv("CHB_CHANNELS_NAVER_CLIENT_ID", "cid")
		os.Setenv("CHB_CHANNELS_NAVER_CLIENT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Channels.Naver.Enabled)
		assert.Equal(t, "cid", cfg.Channels.Naver.ClientID)
	})

	t.Run("rejects out of range page size", func(t *testing.T) {
		clearEnv()
		os.Setenv("CHB_SYNC_PAGE_SIZE", "1000")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_size")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "channelbridge",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password are escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := &RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", r.Addr())
}
