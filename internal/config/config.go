package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска сервера сцен.
type Config struct {
	Port         string        `env:"SCENE_PORT" envDefault:"8080"`
	TickInterval time.Duration `env:"SCENE_TICK_INTERVAL" envDefault:"100ms"`
	Zone         int           `env:"SCENE_ZONE" envDefault:"130"`

	// CatalogPath переопределяет встроенный каталог сцены (YAML).
	CatalogPath string `env:"SCENE_CATALOG"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load читает конфиг из переменных окружения.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые env не может проверить сам.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("SCENE_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.Port == "" {
		return fmt.Errorf("SCENE_PORT is required")
	}
	return nil
}
