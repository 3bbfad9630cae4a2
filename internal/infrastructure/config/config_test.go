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
		"COSTENGINE_APP_NAME":                   os.Getenv("COSTENGINE_APP_NAME"),
		"COSTENGINE_APP_ENV":                    os.Getenv("COSTENGINE_APP_ENV"),
		"COSTENGINE_DATABASE_HOST":              os.Getenv("COSTENGINE_DATABASE_HOST"),
		"COSTENGINE_DATABASE_PORT":              os.Getenv("COSTENGINE_DATABASE_PORT"),
		"COSTENGINE_DATABASE_USER":              os.Getenv("COSTENGINE_DATABASE_USER"),
		"COSTENGINE_DATABASE_PASSWORD":          os.Getenv("COSTENGINE_DATABASE_PASSWORD"),
		"COSTENGINE_DATABASE_DBNAME":            os.Getenv("COSTENGINE_DATABASE_DBNAME"),
		"COSTENGINE_DATABASE_SSLMODE":           os.Getenv("COSTENGINE_DATABASE_SSLMODE"),
		"COSTENGINE_DATABASE_MAX_OPEN_CONNS":    os.Getenv("COSTENGINE_DATABASE_MAX_OPEN_CONNS"),
		"COSTENGINE_DATABASE_MAX_IDLE_CONNS":    os.Getenv("COSTENGINE_DATABASE_MAX_IDLE_CONNS"),
		"COSTENGINE_ACCOUNTS_INVENTORY_ACCOUNT": os.Getenv("COSTENGINE_ACCOUNTS_INVENTORY_ACCOUNT"),
		"COSTENGINE_ACCOUNTS_COGS_ACCOUNT":      os.Getenv("COSTENGINE_ACCOUNTS_COGS_ACCOUNT"),
		"COSTENGINE_RECOST_AUTO_MIGRATE":        os.Getenv("COSTENGINE_RECOST_AUTO_MIGRATE"),
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

		assert.Equal(t, "costengine", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "costengine", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "143505", cfg.Accounts.InventoryAccount)
		assert.Equal(t, "613595", cfg.Accounts.COGSAccount)
		assert.False(t, cfg.Recost.AutoMigrate)
	})

	t.Run("loads values from environment variables with COSTENGINE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("COSTENGINE_APP_NAME", "test-app")
		os.Setenv("COSTENGINE_APP_ENV", "testing")
		os.Setenv("COSTENGINE_DATABASE_HOST", "testdb.local")
		os.Setenv("COSTENGINE_DATABASE_PORT", "5433")
		os.Setenv("COSTENGINE_DATABASE_USER", "testuser")
		os.Setenv("COSTENGINE_DATABASE_PASSWORD", "testpass")
		os.Setenv("COSTENGINE_DATABASE_DBNAME", "testdb")
		os.Setenv("COSTENGINE_DATABASE_SSLMODE", "require")
		os.Setenv("COSTENGINE_ACCOUNTS_INVENTORY_ACCOUNT", "143510")
		os.Setenv("COSTENGINE_ACCOUNTS_COGS_ACCOUNT", "613500")
		os.Setenv("COSTENGINE_RECOST_AUTO_MIGRATE", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "143510", cfg.Accounts.InventoryAccount)
		assert.Equal(t, "613500", cfg.Accounts.COGSAccount)
		assert.True(t, cfg.Recost.AutoMigrate)
	})

	t.Run("rejects idle connections exceeding open connections", func(t *testing.T) {
		clearEnv()
		os.Setenv("COSTENGINE_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("COSTENGINE_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires password and TLS", func(t *testing.T) {
		clearEnv()
		os.Setenv("COSTENGINE_APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("COSTENGINE_DATABASE_PASSWORD", "secret")
		os.Setenv("COSTENGINE_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "svc",
		Password: "p@ss/word",
		DBName:   "costengine",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
