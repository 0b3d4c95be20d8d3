package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DSN", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 2.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, "goose_db_version", cfg.MigrationsTable)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "Production")
	t.Setenv("DB_DSN", "postgres://bot@localhost/groups")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("HISTORY_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, "postgres://bot@localhost/groups", cfg.GetDBDSN())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "half an hour")

	_, err := Load()
	assert.ErrorContains(t, err, "process env")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			TelegramToken:        "123:abc",
			Environment:          EnvDevelopment,
			SessionTTL:           time.Minute,
			SessionSweepInterval: time.Minute,
			RateLimitRPS:         1,
			RateLimitBurst:       1,
			HistoryLimit:         1,
			MigrationsTable:      "goose_db_version",
		}
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown env", func(c *Config) { c.Environment = "staging" }, "invalid ENV"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"zero sweep", func(c *Config) { c.SessionSweepInterval = 0 }, "SESSION_SWEEP_INTERVAL"},
		{"zero rps", func(c *Config) { c.RateLimitRPS = 0 }, "RATE_LIMIT_RPS"},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, "RATE_LIMIT_BURST"},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }, "HISTORY_LIMIT"},
		{"empty table", func(c *Config) { c.MigrationsTable = " " }, "MIGRATIONS_TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
