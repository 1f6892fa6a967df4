package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// CustomerRepository — потокобезопасное in-memory хранилище клиентов.
type CustomerRepository struct {
	mu         sync.RWMutex
	items      map[int64]domain.Customer
	byEmail    map[string]int64
	byDocument map[string]int64
	nextID     int64
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository конструирует пустое хранилище клиентов.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		items:      make(map[int64]domain.Customer),
		byEmail:    make(map[string]int64),
		byDocument: make(map[string]int64),
	}
}

// Create сохраняет клиента, присваивая следующий идентификатор.
func (r *CustomerRepository) Create(customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[customer.Email]; exists {
		return domain.Customer{}, domain.ErrDuplicateEmail
	}
	if _, exists := r.byDocument[customer.Document]; exists {
		return domain.Customer{}, domain.ErrDuplicateDocument
	}

	r.nextID++
	customer.ID = r.nextID
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	r.items[customer.ID] = customer
	r.byEmail[customer.Email] = customer.ID
	r.byDocument[customer.Document] = customer.ID
	return customer, nil
}

// GetByID возвращает клиента по идентификатору.
func (r *CustomerRepository) GetByID(id int64) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// GetByEmail возвращает клиента по email.
func (r *CustomerRepository) GetByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return r.items[id], nil
}

// GetByDocument возвращает клиента по нормализованному документу.
func (r *CustomerRepository) GetByDocument(document string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDocument[document]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return r.items[id], nil
}

// List возвращает страницу клиентов, упорядоченную по идентификатору.
func (r *CustomerRepository) List(skip, limit int) ([]domain.Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Customer, 0, len(r.items))
	for id := int64(1); id <= r.nextID; id++ {
		if customer, ok := r.items[id]; ok {
			all = append(all, customer)
		}
	}

	total := len(all)
	if skip >= total {
		return []domain.Customer{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

// Update сохраняет изменённого клиента целиком.
func (r *CustomerRepository) Update(customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[customer.ID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if customer.Email != current.Email {
		if _, exists := r.byEmail[customer.Email]; exists {
			return domain.Customer{}, domain.ErrDuplicateEmail
		}
		delete(r.byEmail, current.Email)
		r.byEmail[customer.Email] = customer.ID
	}
	if customer.Document != current.Document {
		if _, exists := r.byDocument[customer.Document]; exists {
			return domain.Customer{}, domain.ErrDuplicateDocument
		}
		delete(r.byDocument, current.Document)
		r.byDocument[customer.Document] = customer.ID
	}

	customer.CreatedAt = current.CreatedAt
	customer.UpdatedAt = time.Now().UTC()
	r.items[customer.ID] = customer
	return customer, nil
}

// SoftDelete помечает клиента неактивным.
func (r *CustomerRepository) SoftDelete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	customer.IsActive = false
	customer.UpdatedAt = time.Now().UTC()
	r.items[id] = customer
	return nil
}
