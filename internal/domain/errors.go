package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerInactive — бизнес-ошибка: клиент деактивирован и заказывать не может.
	ErrCustomerInactive = errors.New("customer is inactive")
	// ErrProductInactive — бизнес-ошибка: товар деактивирован и недоступен для заказа.
	ErrProductInactive = errors.New("product is inactive")
	// ErrInsufficientStock — на складе меньше, чем запрошено.
	// Детали несёт InsufficientStockError, сопоставимая через errors.Is.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderCannotBeCancelled — отмена недопустима из текущего статуса.
	ErrOrderCannotBeCancelled = errors.New("order cannot be cancelled")
	// ErrOrderCannotBePaid — оплата недопустима из текущего статуса.
	ErrOrderCannotBePaid = errors.New("order cannot be paid")

	// Ошибки уникальности, поднимаемые хранилищем.
	ErrDuplicateSKU            = errors.New("sku already exists")
	ErrDuplicateEmail          = errors.New("email already exists")
	ErrDuplicateDocument       = errors.New("document already exists")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists")

	// ErrIdempotencyKeyRequired — API-контракт требует непустой ключ идемпотентности.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
)

// Ошибки валидации сущностей.
var (
	ErrCustomerRequired   = errors.New("customer_id must be greater than zero")
	ErrItemsRequired      = errors.New("order must contain at least one item")
	ErrTotalNegative      = errors.New("order total must be non-negative")
	ErrTotalMismatch      = errors.New("order total does not match items sum")
	ErrInvalidOrderStatus = errors.New("invalid order status")

	ErrItemProductInvalid = errors.New("item product_id must be greater than zero")
	ErrItemPriceInvalid   = errors.New("item unit price must be greater than zero")
	ErrItemQtyInvalid     = errors.New("item quantity must be greater than zero")
	ErrLineTotalMismatch  = errors.New("item line total does not match unit price * quantity")

	ErrProductNameRequired  = errors.New("product name is required")
	ErrProductSKURequired   = errors.New("product sku is required")
	ErrProductPriceInvalid  = errors.New("product price must be greater than zero")
	ErrProductStockNegative = errors.New("product stock must be non-negative")

	ErrCustomerNameRequired    = errors.New("customer name is required")
	ErrCustomerEmailInvalid    = errors.New("customer email is invalid")
	ErrCustomerDocumentInvalid = errors.New("customer document must contain 11 or 14 digits")
)

// validationErrs перечисляет ошибки, которые клиент может исправить сам,
// поправив запрос. Используется на HTTP-границе для выбора кода ответа.
var validationErrs = []error{
	ErrCustomerRequired,
	ErrItemsRequired,
	ErrTotalNegative,
	ErrTotalMismatch,
	ErrInvalidOrderStatus,
	ErrItemProductInvalid,
	ErrItemPriceInvalid,
	ErrItemQtyInvalid,
	ErrLineTotalMismatch,
	ErrProductNameRequired,
	ErrProductSKURequired,
	ErrProductPriceInvalid,
	ErrProductStockNegative,
	ErrCustomerNameRequired,
	ErrCustomerEmailInvalid,
	ErrCustomerDocumentInvalid,
	ErrIdempotencyKeyRequired,
}

// IsValidation сообщает, является ли ошибка ошибкой валидации входных данных.
func IsValidation(err error) bool {
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// InsufficientStockError несёт детали нехватки остатка: имя товара,
// доступное и запрошенное количество — всё это попадает в сообщение клиенту.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// Is позволяет сопоставлять ошибку с сентинелом ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Transition именует переход жизненного цикла заказа.
type Transition string

const (
	TransitionCancel Transition = "cancel"
	TransitionPay    Transition = "pay"
)

// OrderStatusError описывает недопустимый переход статуса заказа.
type OrderStatusError struct {
	Transition Transition
	Status     OrderStatus
}

func (e *OrderStatusError) Error() string {
	switch e.Transition {
	case TransitionPay:
		return fmt.Sprintf("order with status %q cannot be marked as paid", e.Status)
	default:
		return fmt.Sprintf("order with status %q cannot be cancelled", e.Status)
	}
}

// Is сопоставляет ошибку с сентинелами ErrOrderCannotBeCancelled / ErrOrderCannotBePaid.
func (e *OrderStatusError) Is(target error) bool {
	switch e.Transition {
	case TransitionPay:
		return target == ErrOrderCannotBePaid
	default:
		return target == ErrOrderCannotBeCancelled
	}
}
