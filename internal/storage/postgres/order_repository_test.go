package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// Тесты требуют живой PostgreSQL и запускаются только при заданном
// OMS_TEST_POSTGRES_DSN.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("OMS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OMS_TEST_POSTGRES_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func seedTestData(t *testing.T, store *Store, stock int32) (domain.Customer, domain.Product) {
	t.Helper()
	suffix := uniqueSuffix()

	customers := NewCustomerRepository(store.DB())
	customer, err := customers.Create(domain.Customer{
		Name:     "Test Customer",
		Email:    fmt.Sprintf("test-%s@example.com", suffix),
		Document: suffix[len(suffix)-11:],
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	products := NewProductRepository(store.DB())
	product, err := products.Create(domain.Product{
		Name:       "Test Product " + suffix,
		SKU:        "SKU-TEST-" + suffix,
		PriceMinor: 1000,
		StockQty:   stock,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return customer, product
}

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	customer, product := seedTestData(t, store, 10)

	orders := NewOrderRepository(store.DB())
	now := time.Now().UTC()
	key := "it-create-" + uniqueSuffix()

	created, err := orders.Create(domain.Order{
		CustomerID:     customer.ID,
		TotalMinor:     3000,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: key,
		Items: []domain.OrderItem{
			{ProductID: product.ID, UnitPriceMinor: 1000, Quantity: 3, LineTotalMinor: 3000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, []domain.StockDecrement{{ProductID: product.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("order id was not assigned")
	}

	fetched, err := orders.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if fetched.TotalMinor != 3000 || len(fetched.Items) != 1 {
		t.Errorf("fetched order mismatch: total=%d items=%d", fetched.TotalMinor, len(fetched.Items))
	}

	products := NewProductRepository(store.DB())
	got, err := products.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.StockQty != 7 {
		t.Errorf("stock = %d, want 7", got.StockQty)
	}
}

func TestOrderRepositoryInsufficientStockRollsBack(t *testing.T) {
	store := openTestStore(t)
	customer, product := seedTestData(t, store, 1)

	orders := NewOrderRepository(store.DB())
	now := time.Now().UTC()
	key := "it-stock-" + uniqueSuffix()

	_, err := orders.Create(domain.Order{
		CustomerID:     customer.ID,
		TotalMinor:     2000,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: key,
		Items: []domain.OrderItem{
			{ProductID: product.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, []domain.StockDecrement{{ProductID: product.ID, Quantity: 2}})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if _, err := orders.GetByIdempotencyKey(key); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("order persisted despite rollback: err = %v", err)
	}

	products := NewProductRepository(store.DB())
	got, err := products.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.StockQty != 1 {
		t.Errorf("stock = %d, want 1", got.StockQty)
	}
}

func TestOrderRepositoryDuplicateIdempotencyKey(t *testing.T) {
	store := openTestStore(t)
	customer, product := seedTestData(t, store, 10)

	orders := NewOrderRepository(store.DB())
	now := time.Now().UTC()
	key := "it-dup-" + uniqueSuffix()

	order := domain.Order{
		CustomerID:     customer.ID,
		TotalMinor:     1000,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: key,
		Items: []domain.OrderItem{
			{ProductID: product.ID, UnitPriceMinor: 1000, Quantity: 1, LineTotalMinor: 1000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	decrements := []domain.StockDecrement{{ProductID: product.ID, Quantity: 1}}

	if _, err := orders.Create(order, decrements); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := orders.Create(order, decrements)
	if !errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		t.Fatalf("err = %v, want ErrDuplicateIdempotencyKey", err)
	}
}
