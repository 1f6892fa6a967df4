package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// ProductRepository — потокобезопасное in-memory хранилище товаров.
// Используется в тестах и при запуске без PostgreSQL.
type ProductRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Product
	bySKU  map[string]int64
	nextID int64
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository конструирует пустое хранилище товаров.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		items: make(map[int64]domain.Product),
		bySKU: make(map[string]int64),
	}
}

// Create сохраняет товар, присваивая следующий идентификатор.
func (r *ProductRepository) Create(product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySKU[product.SKU]; exists {
		return domain.Product{}, domain.ErrDuplicateSKU
	}

	r.nextID++
	product.ID = r.nextID
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.items[product.ID] = product
	r.bySKU[product.SKU] = product.ID
	return product, nil
}

// GetByID возвращает товар по идентификатору.
func (r *ProductRepository) GetByID(id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetBySKU возвращает товар по точному SKU.
func (r *ProductRepository) GetBySKU(sku string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySKU[sku]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return r.items[id], nil
}

// List возвращает страницу товаров по фильтру, упорядоченную по идентификатору.
func (r *ProductRepository) List(skip, limit int, filter domain.ProductListFilter) ([]domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Product, 0, len(r.items))
	for id := int64(1); id <= r.nextID; id++ {
		product, ok := r.items[id]
		if !ok {
			continue
		}
		if filter.IsActive != nil && product.IsActive != *filter.IsActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.SKU != "" && product.SKU != filter.SKU {
			continue
		}
		matched = append(matched, product)
	}

	total := len(matched)
	if skip >= total {
		return []domain.Product{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

// Update сохраняет изменённый товар целиком.
func (r *ProductRepository) Update(product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[product.ID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if product.SKU != current.SKU {
		if _, exists := r.bySKU[product.SKU]; exists {
			return domain.Product{}, domain.ErrDuplicateSKU
		}
		delete(r.bySKU, current.SKU)
		r.bySKU[product.SKU] = product.ID
	}

	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.items[product.ID] = product
	return product, nil
}

// SoftDelete помечает товар неактивным.
func (r *ProductRepository) SoftDelete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()
	r.items[id] = product
	return nil
}

// applyDecrements списывает остатки по всем позициям или ни по одной.
// Один товар может встречаться в нескольких позициях, поэтому проверка
// идёт по остатку за вычетом уже учтённых позиций, а не по исходному.
// Вызывается из хранилища заказов под его собственной блокировкой.
func (r *ProductRepository) applyDecrements(decrements []domain.StockDecrement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := make(map[int64]int32, len(decrements))
	for _, dec := range decrements {
		product, ok := r.items[dec.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		left, seen := remaining[dec.ProductID]
		if !seen {
			left = product.StockQty
		}
		if left < dec.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   left,
				Requested:   dec.Quantity,
			}
		}
		remaining[dec.ProductID] = left - dec.Quantity
	}

	now := time.Now().UTC()
	for id, left := range remaining {
		product := r.items[id]
		product.StockQty = left
		product.UpdatedAt = now
		r.items[id] = product
	}
	return nil
}
