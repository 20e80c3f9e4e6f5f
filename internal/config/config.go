package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DBDSN          string // пустая строка означает хранение в памяти
	Environment    string
	MigrationsPath string
	PollInterval   time.Duration // период фоновых поллеров
	DraftTTL       time.Duration // время жизни незавершённого черновика встречи
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	var err error
	cfg.PollInterval, err = durationFromEnv("POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.DraftTTL, err = durationFromEnv("DRAFT_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	return cfg, nil
}

// durationFromEnv читает длительность из переменной окружения,
// возвращая дефолт если переменная не задана
func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return value, nil
}

// UseInMemoryStorage сообщает выбран ли бэкенд хранения в памяти
func (c *Config) UseInMemoryStorage() bool {
	return c.DBDSN == ""
}
