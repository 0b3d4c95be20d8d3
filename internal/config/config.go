package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
	DBDSN         string `envconfig:"DB_DSN"`
	Environment   string `envconfig:"ENV" default:"development"`

	// Сессии диалога
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// Ограничение частоты сообщений от одного пользователя
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"2"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"5"`

	HistoryLimit    int    `envconfig:"HISTORY_LIMIT" default:"5"`
	MigrationsTable string `envconfig:"MIGRATIONS_TABLE" default:"goose_db_version"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, storage=%t)\n", cfg.Environment, cfg.StorageEnabled())

	return &cfg, nil
}

// Validate проверяет обязательные поля и допустимые значения
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TelegramToken) == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	env := strings.ToLower(strings.TrimSpace(c.Environment))
	if env == "" {
		env = EnvDevelopment
	}
	if env != EnvDevelopment && env != EnvProduction {
		return fmt.Errorf("invalid ENV %q; allowed: development, production", c.Environment)
	}
	c.Environment = env

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be >= 1")
	}
	if strings.TrimSpace(c.MigrationsTable) == "" {
		return fmt.Errorf("MIGRATIONS_TABLE must not be empty")
	}

	return nil
}

// StorageEnabled - нужна ли PostgreSQL. Без DB_DSN бот хранит данные в памяти.
func (c *Config) StorageEnabled() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
