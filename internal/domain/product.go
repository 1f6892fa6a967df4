package domain

import (
	"strings"
	"time"
)

// Product — товар каталога. Остаток меняется либо через CRUD каталога,
// либо списанием при создании заказа; других писателей нет.
type Product struct {
	ID   int64
	Name string
	// SKU уникален в пределах каталога.
	SKU string
	// PriceMinor — цена в минимальных денежных единицах, строго положительная.
	PriceMinor int64
	// StockQty — остаток на складе, не может уходить в минус.
	StockQty int32
	// IsActive=false означает мягкое удаление: товар скрыт, но строка остаётся.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ErrProductSKURequired)
	}
	if p.PriceMinor <= 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.StockQty < 0 {
		errs = append(errs, ErrProductStockNegative)
	}

	return errs
}

// HasSufficientStock сообщает, можно ли списать qty единиц. Неактивный
// товар недоступен для заказа независимо от остатка. Само списание
// выполняют хранилища в рамках транзакции создания заказа.
func (p *Product) HasSufficientStock(qty int32) bool {
	return p.IsActive && p.StockQty >= qty
}
