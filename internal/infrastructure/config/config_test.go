package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FLEXI_APP_NAME":                    os.Getenv("FLEXI_APP_NAME"),
		"FLEXI_APP_ENV":                     os.Getenv("FLEXI_APP_ENV"),
		"FLEXI_APP_PORT":                    os.Getenv("FLEXI_APP_PORT"),
		"FLEXI_DATABASE_HOST":               os.Getenv("FLEXI_DATABASE_HOST"),
		"FLEXI_DATABASE_PORT":               os.Getenv("FLEXI_DATABASE_PORT"),
		"FLEXI_DATABASE_PASSWORD":           os.Getenv("FLEXI_DATABASE_PASSWORD"),
		"FLEXI_DATABASE_SSLMODE":            os.Getenv("FLEXI_DATABASE_SSLMODE"),
		"FLEXI_REPLENISHMENT_SERVICE_LEVEL": os.Getenv("FLEXI_REPLENISHMENT_SERVICE_LEVEL"),
		"FLEXI_REPLENISHMENT_WINDOW_DAYS":   os.Getenv("FLEXI_REPLENISHMENT_WINDOW_DAYS"),
		"FLEXI_SCHEDULER_DAILY_RUN_HOUR":    os.Getenv("FLEXI_SCHEDULER_DAILY_RUN_HOUR"),
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

		assert.Equal(t, "replenishment-engine", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "replenishment", cfg.Database.DBName)
		assert.Equal(t, 95, cfg.Replenishment.ServiceLevel)
		assert.Equal(t, 2, cfg.Replenishment.RestockMultiplier)
		assert.Equal(t, 90, cfg.Replenishment.WindowDays)
		assert.Equal(t, 2, cfg.Scheduler.DailyRunHour)
		assert.Equal(t, "replenishment:alerts", cfg.Notify.AlertChannel)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("FLEXI_APP_PORT", "9000")
		os.Setenv("FLEXI_DATABASE_HOST", "db.internal")
		os.Setenv("FLEXI_REPLENISHMENT_SERVICE_LEVEL", "99")
		os.Setenv("FLEXI_SCHEDULER_DAILY_RUN_HOUR", "4")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 99, cfg.Replenishment.ServiceLevel)
		assert.Equal(t, 4, cfg.Scheduler.DailyRunHour)
	})

	t.Run("rejects an unsupported service level", func(t *testing.T) {
		clearEnv()
		os.Setenv("FLEXI_REPLENISHMENT_SERVICE_LEVEL", "85")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires a database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("FLEXI_APP_ENV", "production")
		os.Setenv("FLEXI_DATABASE_SSLMODE", "require")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "replenishment",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "replenishment")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word") // special characters are escaped
}
