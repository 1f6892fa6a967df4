package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
	"github.com/vladislavdragonenkov/retail-oms/internal/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateOrderItemInput — одна запрошенная позиция: товар и количество.
type CreateOrderItemInput struct {
	ProductID int64
	Quantity  int32
}

// CreateOrderInput — входные данные создания заказа.
type CreateOrderInput struct {
	CustomerID     int64
	Items          []CreateOrderItemInput
	IdempotencyKey string
}

// Page — страница заказов с метаданными пагинации.
type Page struct {
	Orders     []domain.Order
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Service реализует создание заказа и переходы его жизненного цикла.
type Service struct {
	orders    domain.OrderRepository
	products  domain.ProductRepository
	customers domain.CustomerRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService конструирует сервис заказов с зависимостями.
func NewService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	logger *log.Entry,
) *Service {
	svc := NewServiceWithoutMetrics(orders, products, customers, logger)
	svc.metrics = metrics.NewOrderMetrics()
	return svc
}

// NewServiceWithoutMetrics конструирует сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		orders:    orders,
		products:  products,
		customers: customers,
		logger:    logger,
	}
}

// CreateOrder создаёт заказ: проверка идемпотентности, валидация клиента и
// позиций, расчёт суммы, атомарное сохранение вместе со списанием остатков.
// Побочных эффектов нет, пока вся операция не завершится успешно.
func (s *Service) CreateOrder(in CreateOrderInput) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		return domain.Order{}, domain.ErrIdempotencyKeyRequired
	}

	// Идемпотентность: при совпадении ключа возвращаем сохранённый заказ как есть.
	// Ключ побеждает payload — повторный запрос с тем же ключом и другим телом
	// не перепроверяется и не перепрайсится.
	existing, err := s.orders.GetByIdempotencyKey(key)
	if err == nil {
		s.logger.WithFields(log.Fields{
			"idempotency_key": key,
			"order_id":        existing.ID,
		}).Warn("order with the same idempotency key already exists, returning it")
		if s.metrics != nil {
			s.metrics.RecordIdempotentReplay()
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, s.failCreate(key, fmt.Errorf("idempotency lookup: %w", err))
	}

	// Клиент должен существовать и быть активным.
	customer, err := s.customers.GetByID(in.CustomerID)
	if err != nil {
		return domain.Order{}, s.failCreate(key, err)
	}
	if !customer.IsActive {
		return domain.Order{}, s.failCreate(key, fmt.Errorf("customer %d: %w", customer.ID, domain.ErrCustomerInactive))
	}

	// Позиции валидируются строго в порядке запроса с остановкой на первой
	// ошибке: позиции после неуспешной не читаются вовсе.
	items := make([]domain.OrderItem, 0, len(in.Items))
	decrements := make([]domain.StockDecrement, 0, len(in.Items))
	var totalMinor int64
	for _, reqItem := range in.Items {
		product, err := s.products.GetByID(reqItem.ProductID)
		if err != nil {
			return domain.Order{}, s.failCreate(key, err)
		}
		if !product.IsActive {
			return domain.Order{}, s.failCreate(key,
				fmt.Errorf("product %q (id %d): %w", product.Name, product.ID, domain.ErrProductInactive))
		}
		if !product.HasSufficientStock(reqItem.Quantity) {
			if s.metrics != nil {
				s.metrics.RecordInsufficientStock()
			}
			return domain.Order{}, s.failCreate(key, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQty,
				Requested:   reqItem.Quantity,
			})
		}

		// Снимок цены каталога на момент заказа.
		lineTotal := product.PriceMinor * int64(reqItem.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			UnitPriceMinor: product.PriceMinor,
			Quantity:       reqItem.Quantity,
			LineTotalMinor: lineTotal,
		})
		decrements = append(decrements, domain.StockDecrement{
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
		})
		totalMinor += lineTotal
	}

	now := time.Now().UTC()
	order := domain.Order{
		CustomerID:     in.CustomerID,
		TotalMinor:     totalMinor,
		Status:         domain.OrderStatusCreated,
		IdempotencyKey: key,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Повторная защитная проверка инвариантов агрегата целиком.
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, s.failCreate(key, errors.Join(errs...))
	}

	created, err := s.orders.Create(order, decrements)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			// Параллельный запрос с тем же ключом успел закоммититься первым —
			// возвращаем его результат, как при обычном повторе.
			winner, getErr := s.orders.GetByIdempotencyKey(key)
			if getErr == nil {
				if s.metrics != nil {
					s.metrics.RecordIdempotentReplay()
				}
				return winner, nil
			}
		}
		if errors.Is(err, domain.ErrInsufficientStock) && s.metrics != nil {
			s.metrics.RecordInsufficientStock()
		}
		return domain.Order{}, s.failCreate(key, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":        created.ID,
		"customer_id":     created.CustomerID,
		"total_minor":     created.TotalMinor,
		"items_count":     len(created.Items),
		"idempotency_key": key,
	}).Info("order created")
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}

	return created, nil
}

// GetOrder возвращает заказ с позициями.
func (s *Service) GetOrder(id int64) (domain.Order, error) {
	return s.orders.GetByID(id)
}

// CancelOrder отменяет заказ. Переход допустим только из статуса created.
func (s *Service) CancelOrder(id int64) (domain.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := order.Cancel(); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.orders.UpdateStatus(order)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFailure("cancel")
		}
		return domain.Order{}, err
	}

	s.logger.WithField("order_id", updated.ID).Info("order cancelled")
	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
	}
	return updated, nil
}

// MarkOrderPaid помечает заказ оплаченным. Переход допустим только из created.
func (s *Service) MarkOrderPaid(id int64) (domain.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := order.MarkAsPaid(); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.orders.UpdateStatus(order)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFailure("pay")
		}
		return domain.Order{}, err
	}

	s.logger.WithField("order_id", updated.ID).Info("order marked as paid")
	if s.metrics != nil {
		s.metrics.RecordOrderPaid()
	}
	return updated, nil
}

// ListOrders возвращает страницу заказов с опциональным фильтром по клиенту.
// customerID=0 означает отсутствие фильтра.
func (s *Service) ListOrders(page, pageSize int, customerID int64) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	skip := (page - 1) * pageSize
	orders, total, err := s.orders.List(skip, pageSize, customerID)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Orders:     orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// failCreate логирует и считает неуспех создания, возвращая исходную ошибку
// без обёртки, чтобы вызывающий код видел причину как есть.
func (s *Service) failCreate(key string, err error) error {
	s.logger.WithError(err).WithField("idempotency_key", key).Warn("order creation failed")
	if s.metrics != nil {
		s.metrics.RecordFailure("create")
	}
	return err
}
