package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/messaging/kafka"
	"github.com/andreimorozov/sales/internal/storage/memory"
	"github.com/andreimorozov/sales/internal/storage/postgres"
)

// Dependencies — хранилища и внешние подключения сервиса.
type Dependencies struct {
	Catalog   domain.CatalogStore
	Customers domain.CustomerStore
	Ledger    domain.SaleLedger
	Producer  *kafka.Producer
	Logger    *log.Entry

	store *postgres.Store // nil при драйвере memory
}

// NewDependencies собирает хранилища по выбранному драйверу и, если задан
// SALES_KAFKA_BROKERS, Kafka producer. Ошибка подключения Kafka не фатальна:
// сервис продолжает работу без публикации событий.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.New().WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case StorageMemory:
		deps.Catalog = memory.NewCatalogStore()
		deps.Customers = memory.NewCustomerStore()
		deps.Ledger = memory.NewSaleLedger()
		logger.Info("using in-memory storage")
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := store.MigrateUp(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.store = store
		deps.Catalog = postgres.NewCatalogStore(store)
		deps.Customers = postgres.NewCustomerStore(store)
		deps.Ledger = postgres.NewSaleLedger(store)
		logger.Info("using postgres storage")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.Producer = producer
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}

	return deps, nil
}

// PingStorage проверяет соединение с Postgres; для памяти всегда nil.
func (d *Dependencies) PingStorage(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			d.Logger.Info("kafka producer closed")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres connection")
		}
	}
}
