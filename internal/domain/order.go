package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusCreated — заказ создан, оплата ещё не подтверждена.
	OrderStatusCreated OrderStatus = "created"
	// OrderStatusPaid — заказ оплачен. Терминальный статус.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusCancelled — заказ отменён до оплаты. Терминальный статус.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem представляет одну позицию заказа.
// Позиция живёт только вместе со своим заказом и не имеет собственного жизненного цикла.
type OrderItem struct {
	ID      int64
	OrderID int64
	// ProductID — ссылка на товар каталога.
	ProductID int64
	// UnitPriceMinor — цена за единицу в минимальных денежных единицах,
	// зафиксированная в момент создания заказа. После создания из каталога не перечитывается.
	UnitPriceMinor int64
	// Quantity — количество единиц товара.
	Quantity int32
	// LineTotalMinor должен в точности равняться UnitPriceMinor * Quantity.
	// Значение сверяется, а не вычисляется молча, чтобы ловить ошибки вызывающего кода.
	LineTotalMinor int64
}

// CalculateLineTotal возвращает ожидаемую сумму позиции.
func (i OrderItem) CalculateLineTotal() int64 {
	return i.UnitPriceMinor * int64(i.Quantity)
}

// Validate проверяет инварианты позиции и возвращает список замечаний.
func (i OrderItem) Validate() []error {
	var errs []error

	if i.ProductID <= 0 {
		errs = append(errs, ErrItemProductInvalid)
	}
	if i.UnitPriceMinor <= 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if i.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}
	if i.LineTotalMinor != i.CalculateLineTotal() {
		errs = append(errs, ErrLineTotalMismatch)
	}

	return errs
}

// Order агрегирует заголовок заказа и его позиции.
// Заказ создаётся атомарно вместе со всеми позициями; после создания
// меняется только статус (created → paid или created → cancelled).
type Order struct {
	ID         int64
	CustomerID int64
	// TotalMinor — сумма заказа в минимальных денежных единицах,
	// равна сумме LineTotalMinor всех позиций.
	TotalMinor int64
	Status     OrderStatus
	// IdempotencyKey — клиентский ключ идемпотентности, уникален среди всех заказов
	// и неизменяем после создания.
	IdempotencyKey string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID <= 0 {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrInvalidOrderStatus)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Сверяем сумму заказа с суммой позиций.
	var calc int64
	for _, item := range o.Items {
		errs = append(errs, item.Validate()...)
		calc += item.LineTotalMinor
	}
	if len(o.Items) > 0 && calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// CanBeCancelled сообщает, допустима ли отмена из текущего статуса.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusCreated
}

// Cancel переводит заказ в статус cancelled.
// Допустимо только из статуса created; из любого другого возвращается
// OrderStatusError с текущим статусом.
func (o *Order) Cancel() error {
	if !o.CanBeCancelled() {
		return &OrderStatusError{Transition: TransitionCancel, Status: o.Status}
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkAsPaid переводит заказ в статус paid.
// Допустимо только из статуса created; повторная оплата также запрещена.
func (o *Order) MarkAsPaid() error {
	if o.Status != OrderStatusCreated {
		return &OrderStatusError{Transition: TransitionPay, Status: o.Status}
	}
	o.Status = OrderStatusPaid
	o.UpdatedAt = time.Now().UTC()
	return nil
}
