package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
	"github.com/vladislavdragonenkov/retail-oms/internal/storage/memory"
	"github.com/vladislavdragonenkov/retail-oms/internal/storage/postgres"
)

// Dependencies — собранный набор хранилищ приложения.
type Dependencies struct {
	Orders    domain.OrderRepository
	Products  domain.ProductRepository
	Customers domain.CustomerRepository

	// Store не nil только при работе поверх PostgreSQL.
	Store *postgres.Store
}

// Close освобождает ресурсы хранилищ.
func (d *Dependencies) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}

// BuildDependencies выбирает хранилище по конфигурации: PostgreSQL при
// заданном DSN (со свежими миграциями), иначе in-memory для локальной
// разработки и тестов.
func BuildDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("DSN не задан, используется in-memory хранилище")
		products := memory.NewProductRepository()
		return &Dependencies{
			Orders:    memory.NewOrderRepository(products),
			Products:  products,
			Customers: memory.NewCustomerRepository(),
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("подключение к PostgreSQL установлено, миграции применены")

	db := store.DB()
	return &Dependencies{
		Orders:    postgres.NewOrderRepository(db),
		Products:  postgres.NewProductRepository(db),
		Customers: postgres.NewCustomerRepository(db),
		Store:     store,
	}, nil
}
