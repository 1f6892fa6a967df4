package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// CustomerRepository — PostgreSQL-реализация хранилища клиентов.
type CustomerRepository struct {
	db *sql.DB
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository конструирует репозиторий клиентов поверх подключения.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create сохраняет клиента. Конфликт уникальности раскладывается по имени
// ограничения на ErrDuplicateEmail или ErrDuplicateDocument.
func (r *CustomerRepository) Create(customer domain.Customer) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, document, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, customer.Name, customer.Email, customer.Document,
		customer.IsActive, customer.CreatedAt, customer.UpdatedAt,
	).Scan(&customer.ID)
	if err != nil {
		if dupErr := duplicateCustomerError(err); dupErr != nil {
			return domain.Customer{}, dupErr
		}
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	return customer, nil
}

// GetByID возвращает клиента по идентификатору.
func (r *CustomerRepository) GetByID(id int64) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, document, is_active, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id))
}

// GetByEmail возвращает клиента по email.
func (r *CustomerRepository) GetByEmail(email string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, document, is_active, created_at, updated_at
		FROM customers
		WHERE email = $1
	`, email))
}

// GetByDocument возвращает клиента по нормализованному документу.
func (r *CustomerRepository) GetByDocument(document string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, document, is_active, created_at, updated_at
		FROM customers
		WHERE document = $1
	`, document))
}

// List возвращает страницу клиентов по идентификатору.
func (r *CustomerRepository) List(skip, limit int) ([]domain.Customer, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, document, is_active, created_at, updated_at
		FROM customers
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, limit)
	for rows.Next() {
		customer, err := r.scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, total, nil
}

// Update сохраняет изменённого клиента целиком.
func (r *CustomerRepository) Update(customer domain.Customer) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	customer.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, email = $2, document = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`, customer.Name, customer.Email, customer.Document,
		customer.IsActive, customer.UpdatedAt, customer.ID)
	if err != nil {
		if dupErr := duplicateCustomerError(err); dupErr != nil {
			return domain.Customer{}, dupErr
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update customer rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	return customer, nil
}

// SoftDelete помечает клиента неактивным, строка остаётся.
func (r *CustomerRepository) SoftDelete(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE customers SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete customer rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *CustomerRepository) scanCustomer(row rowScanner) (domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Document,
		&customer.IsActive, &customer.CreatedAt, &customer.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return customer, nil
}

func duplicateCustomerError(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "customers_email_key":
		return domain.ErrDuplicateEmail
	case "customers_document_key":
		return domain.ErrDuplicateDocument
	default:
		return domain.ErrDuplicateEmail
	}
}
