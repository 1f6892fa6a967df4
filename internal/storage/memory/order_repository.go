package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// OrderRepository — потокобезопасное in-memory хранилище заказов.
// Списание остатков делегируется хранилищу товаров и применяется
// по принципу "все или ничего", как транзакция в PostgreSQL.
type OrderRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Order
	byKey  map[string]int64
	nextID int64

	products *ProductRepository
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository конструирует хранилище заказов, связанное с хранилищем
// товаров для атомарного списания остатков.
func NewOrderRepository(products *ProductRepository) *OrderRepository {
	return &OrderRepository{
		items:    make(map[int64]domain.Order),
		byKey:    make(map[string]int64),
		products: products,
	}
}

// Create сохраняет заказ и списывает остатки. При нехватке остатка или
// дубликате ключа идемпотентности ничего не сохраняется.
func (r *OrderRepository) Create(order domain.Order, decrements []domain.StockDecrement) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[order.IdempotencyKey]; exists {
		return domain.Order{}, domain.ErrDuplicateIdempotencyKey
	}

	if err := r.products.applyDecrements(decrements); err != nil {
		return domain.Order{}, err
	}

	r.nextID++
	order.ID = r.nextID
	nextItemID := (order.ID - 1) * 1000
	for i := range order.Items {
		nextItemID++
		order.Items[i].ID = nextItemID
		order.Items[i].OrderID = order.ID
	}

	r.items[order.ID] = cloneOrder(order)
	r.byKey[order.IdempotencyKey] = order.ID
	return order, nil
}

// GetByID возвращает заказ с позициями.
func (r *OrderRepository) GetByID(id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetByIdempotencyKey возвращает заказ по ключу идемпотентности.
func (r *OrderRepository) GetByIdempotencyKey(key string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(r.items[id]), nil
}

// UpdateStatus сохраняет новый статус заказа.
func (r *OrderRepository) UpdateStatus(order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	current.Status = order.Status
	current.UpdatedAt = order.UpdatedAt
	r.items[order.ID] = current
	return cloneOrder(current), nil
}

// List возвращает страницу заказов, новые первыми. customerID=0 отключает фильтр.
func (r *OrderRepository) List(skip, limit int, customerID int64) ([]domain.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if customerID != 0 && order.CustomerID != customerID {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if skip >= total {
		return []domain.Order{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func cloneOrder(order domain.Order) domain.Order {
	clone := order
	clone.Items = make([]domain.OrderItem, len(order.Items))
	copy(clone.Items, order.Items)
	return clone
}
