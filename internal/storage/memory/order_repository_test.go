package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

func seedProduct(t *testing.T, products *ProductRepository, sku string, stock int32) domain.Product {
	t.Helper()
	created, err := products.Create(domain.Product{
		Name: "Product " + sku, SKU: sku, PriceMinor: 1000, StockQty: stock, IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return created
}

func buildOrder(productID int64, qty int32, key string) (domain.Order, []domain.StockDecrement) {
	now := time.Now().UTC()
	lineTotal := 1000 * int64(qty)
	order := domain.Order{
		CustomerID:     1,
		TotalMinor:     lineTotal,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: key,
		Items: []domain.OrderItem{
			{ProductID: productID, UnitPriceMinor: 1000, Quantity: qty, LineTotalMinor: lineTotal},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return order, []domain.StockDecrement{{ProductID: productID, Quantity: qty}}
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 10)

	order, decrements := buildOrder(product.ID, 4, "key-1")
	created, err := orders.Create(order, decrements)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("order id was not assigned")
	}
	if created.Items[0].OrderID != created.ID {
		t.Errorf("item order_id = %d, want %d", created.Items[0].OrderID, created.ID)
	}

	got, err := products.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.StockQty != 6 {
		t.Errorf("stock = %d, want 6", got.StockQty)
	}
}

func TestOrderCreateInsufficientStockIsAtomic(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	plenty := seedProduct(t, products, "SKU-1", 10)
	scarce := seedProduct(t, products, "SKU-2", 1)

	now := time.Now().UTC()
	order := domain.Order{
		CustomerID:     1,
		TotalMinor:     5000,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: "key-1",
		Items: []domain.OrderItem{
			{ProductID: plenty.ID, UnitPriceMinor: 1000, Quantity: 3, LineTotalMinor: 3000},
			{ProductID: scarce.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	decrements := []domain.StockDecrement{
		{ProductID: plenty.ID, Quantity: 3},
		{ProductID: scarce.ID, Quantity: 2},
	}

	_, err := orders.Create(order, decrements)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// Остатки обоих товаров нетронуты, заказ не сохранён.
	gotPlenty, _ := products.GetByID(plenty.ID)
	if gotPlenty.StockQty != 10 {
		t.Errorf("plenty stock = %d, want 10", gotPlenty.StockQty)
	}
	if _, err := orders.GetByIdempotencyKey("key-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("lookup after failed create: err = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderCreateSameProductInSeveralItems(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 3)

	now := time.Now().UTC()
	order := domain.Order{
		CustomerID:     1,
		TotalMinor:     4000,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: "key-1",
		Items: []domain.OrderItem{
			{ProductID: product.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
			{ProductID: product.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	decrements := []domain.StockDecrement{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 2},
	}

	// Суммарно запрошено 4 при остатке 3: каждая позиция проходит по
	// отдельности, но вторая уже не покрывается остатком.
	_, err := orders.Create(order, decrements)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	got, _ := products.GetByID(product.ID)
	if got.StockQty != 3 {
		t.Errorf("stock = %d, want 3", got.StockQty)
	}

	enough := seedProduct(t, products, "SKU-2", 4)
	order.IdempotencyKey = "key-2"
	order.Items = []domain.OrderItem{
		{ProductID: enough.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
		{ProductID: enough.ID, UnitPriceMinor: 1000, Quantity: 2, LineTotalMinor: 2000},
	}
	decrements = []domain.StockDecrement{
		{ProductID: enough.ID, Quantity: 2},
		{ProductID: enough.ID, Quantity: 2},
	}
	if _, err := orders.Create(order, decrements); err != nil {
		t.Fatalf("create with sufficient total stock: %v", err)
	}
	gotEnough, _ := products.GetByID(enough.ID)
	if gotEnough.StockQty != 0 {
		t.Errorf("stock = %d, want 0", gotEnough.StockQty)
	}
}

func TestOrderCreateDuplicateKey(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 10)

	order, decrements := buildOrder(product.ID, 1, "same-key")
	if _, err := orders.Create(order, decrements); err != nil {
		t.Fatalf("first create: %v", err)
	}

	again, decrements := buildOrder(product.ID, 1, "same-key")
	_, err := orders.Create(again, decrements)
	if !errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		t.Fatalf("err = %v, want ErrDuplicateIdempotencyKey", err)
	}

	// Дубликат не списывает остаток.
	got, _ := products.GetByID(product.ID)
	if got.StockQty != 9 {
		t.Errorf("stock = %d, want 9", got.StockQty)
	}
}

func TestOrderCreateConcurrentStockContention(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 10)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, decrements := buildOrder(product.ID, 1, "key-"+string(rune('a'+i)))
			_, err := orders.Create(order, decrements)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			failed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 10 || failed != 10 {
		t.Errorf("succeeded=%d failed=%d, want 10 and 10", succeeded, failed)
	}
	got, _ := products.GetByID(product.ID)
	if got.StockQty != 0 {
		t.Errorf("final stock = %d, want 0", got.StockQty)
	}
}

func TestOrderGetByIDReturnsCopy(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 10)

	order, decrements := buildOrder(product.ID, 1, "key-1")
	created, err := orders.Create(order, decrements)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := orders.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	fetched.Items[0].Quantity = 99

	again, _ := orders.GetByID(created.ID)
	if again.Items[0].Quantity != 1 {
		t.Error("mutation of returned order leaked into storage")
	}
}

func TestOrderListOrdering(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 100)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		order, decrements := buildOrder(product.ID, 1, "key-"+string(rune('a'+i)))
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := orders.Create(order, decrements); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	listed, total, err := orders.List(0, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(listed) != 3 {
		t.Fatalf("total=%d len=%d, want 3 and 3", total, len(listed))
	}
	// Новые заказы первыми.
	if !listed[0].CreatedAt.After(listed[2].CreatedAt) {
		t.Error("orders are not sorted newest first")
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	products := NewProductRepository()
	orders := NewOrderRepository(products)
	product := seedProduct(t, products, "SKU-1", 10)

	order, decrements := buildOrder(product.ID, 1, "key-1")
	created, err := orders.Create(order, decrements)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Status = domain.OrderStatusPaid
	updated, err := orders.UpdateStatus(created)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusPaid {
		t.Errorf("status = %q, want paid", updated.Status)
	}

	missing := domain.Order{ID: 999, Status: domain.OrderStatusPaid}
	if _, err := orders.UpdateStatus(missing); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}
