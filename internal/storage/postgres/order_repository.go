package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// OrderRepository — PostgreSQL-реализация хранилища заказов.
type OrderRepository struct {
	db *sql.DB
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository конструирует репозиторий заказов поверх подключения.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет заказ с позициями и списывает остатки товаров в одной
// транзакции. Списание условное: UPDATE затрагивает строку только если
// остатка хватает, иначе вся транзакция откатывается и возвращается
// InsufficientStockError с актуальным остатком.
func (r *OrderRepository) Create(order domain.Order, decrements []domain.StockDecrement) (_ domain.Order, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin create order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, total_minor, status, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, order.CustomerID, order.TotalMinor, string(order.Status), order.IdempotencyKey,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "orders_idempotency_key_key" {
			err = domain.ErrDuplicateIdempotencyKey
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, unit_price_minor, quantity, line_total_minor)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, item.OrderID, item.ProductID, item.UnitPriceMinor, item.Quantity, item.LineTotalMinor,
		).Scan(&item.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order item (product %d): %w", item.ProductID, err)
		}
	}

	for _, dec := range decrements {
		var result sql.Result
		result, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock_qty = stock_qty - $1, updated_at = NOW()
			WHERE id = $2 AND stock_qty >= $1
		`, dec.Quantity, dec.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("decrement stock (product %d): %w", dec.ProductID, err)
		}

		var affected int64
		affected, err = result.RowsAffected()
		if err != nil {
			return domain.Order{}, fmt.Errorf("decrement stock rows affected (product %d): %w", dec.ProductID, err)
		}
		if affected == 0 {
			err = r.insufficientStockTx(ctx, tx, dec)
			return domain.Order{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit create order tx: %w", err)
	}

	return order, nil
}

// insufficientStockTx строит ошибку нехватки остатка, дочитывая из той же
// транзакции имя товара и фактический остаток.
func (r *OrderRepository) insufficientStockTx(ctx context.Context, tx *sql.Tx, dec domain.StockDecrement) error {
	var (
		name  string
		stock int32
	)
	queryErr := tx.QueryRowContext(ctx, `
		SELECT name, stock_qty FROM products WHERE id = $1
	`, dec.ProductID).Scan(&name, &stock)
	if errors.Is(queryErr, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if queryErr != nil {
		return fmt.Errorf("read product %d after failed decrement: %w", dec.ProductID, queryErr)
	}

	return &domain.InsufficientStockError{
		ProductID:   dec.ProductID,
		ProductName: name,
		Available:   stock,
		Requested:   dec.Quantity,
	}
}

// GetByID возвращает заказ с позициями.
func (r *OrderRepository) GetByID(id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_minor, status, idempotency_key, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		return domain.Order{}, err
	}

	order.Items, err = r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// GetByIdempotencyKey возвращает заказ по ключу идемпотентности.
func (r *OrderRepository) GetByIdempotencyKey(key string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_minor, status, idempotency_key, created_at, updated_at
		FROM orders
		WHERE idempotency_key = $1
	`, key))
	if err != nil {
		return domain.Order{}, err
	}

	order.Items, err = r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// UpdateStatus сохраняет новый статус заказа.
func (r *OrderRepository) UpdateStatus(order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, string(order.Status), order.UpdatedAt, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return r.GetByID(order.ID)
}

// List возвращает страницу заказов, новые первыми. customerID=0 отключает фильтр.
func (r *OrderRepository) List(skip, limit int, customerID int64) ([]domain.Order, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE ($1 = 0 OR customer_id = $1)
	`, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, total_minor, status, idempotency_key, created_at, updated_at
		FROM orders
		WHERE ($1 = 0 OR customer_id = $1)
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`, customerID, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *OrderRepository) scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := row.Scan(&order.ID, &order.CustomerID, &order.TotalMinor, &status,
		&order.IdempotencyKey, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, unit_price_minor, quantity, line_total_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.UnitPriceMinor, &item.Quantity, &item.LineTotalMinor); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
