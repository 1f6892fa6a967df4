package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// ProductRepository — PostgreSQL-реализация хранилища товаров.
type ProductRepository struct {
	db *sql.DB
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository конструирует репозиторий товаров поверх подключения.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create сохраняет товар. Дубликат SKU возвращается как ErrDuplicateSKU.
func (r *ProductRepository) Create(product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, sku, price_minor, stock_qty, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, product.Name, product.SKU, product.PriceMinor, product.StockQty,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.Product{}, domain.ErrDuplicateSKU
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

// GetByID возвращает товар по идентификатору.
func (r *ProductRepository) GetByID(id int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, sku, price_minor, stock_qty, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id))
}

// GetBySKU возвращает товар по точному SKU.
func (r *ProductRepository) GetBySKU(sku string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, sku, price_minor, stock_qty, is_active, created_at, updated_at
		FROM products
		WHERE sku = $1
	`, sku))
}

// List возвращает страницу товаров по фильтру. Фильтр по имени нечувствителен
// к регистру и ищет подстроку, фильтр по SKU точный.
func (r *ProductRepository) List(skip, limit int, filter domain.ProductListFilter) ([]domain.Product, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	where := `
		($1::BOOLEAN IS NULL OR is_active = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		AND ($3 = '' OR sku = $3)
	`
	var isActive sql.NullBool
	if filter.IsActive != nil {
		isActive = sql.NullBool{Bool: *filter.IsActive, Valid: true}
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where,
		isActive, filter.Name, filter.SKU,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, sku, price_minor, stock_qty, is_active, created_at, updated_at
		FROM products
		WHERE `+where+`
		ORDER BY id
		OFFSET $4 LIMIT $5
	`, isActive, filter.Name, filter.SKU, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return products, total, nil
}

// Update сохраняет изменённый товар целиком.
func (r *ProductRepository) Update(product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	product.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, sku = $2, price_minor = $3, stock_qty = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`, product.Name, product.SKU, product.PriceMinor, product.StockQty,
		product.IsActive, product.UpdatedAt, product.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.Product{}, domain.ErrDuplicateSKU
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return product, nil
}

// SoftDelete помечает товар неактивным, строка остаётся.
func (r *ProductRepository) SoftDelete(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	err := row.Scan(&product.ID, &product.Name, &product.SKU, &product.PriceMinor,
		&product.StockQty, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	return product, nil
}
