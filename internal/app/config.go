package app

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска сервиса. Значения читаются из
// окружения с префиксом SALES, например SALES_HTTP_ADDR.
type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"memory"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	AutoMigrate   bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
}

// DefaultConfig возвращает конфигурацию по умолчанию: память, без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		StorageDriver: StorageMemory,
		AutoMigrate:   true,
	}
}

// LoadConfig читает конфигурацию из переменных окружения SALES_*.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("sales", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("SALES_POSTGRES_DSN is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("http address must not be empty")
	}
	if c.MetricsAddr == "" {
		return fmt.Errorf("metrics address must not be empty")
	}
	return nil
}
