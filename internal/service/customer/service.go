package customer

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateCustomerInput — входные данные создания клиента.
type CreateCustomerInput struct {
	Name     string
	Email    string
	Document string
}

// UpdateCustomerInput — частичное обновление: nil-поля не трогаются.
type UpdateCustomerInput struct {
	Name     *string
	Email    *string
	Document *string
	IsActive *bool
}

// Page — страница клиентов с метаданными пагинации.
type Page struct {
	Customers  []domain.Customer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Service реализует CRUD клиентов.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewService конструирует сервис клиентов.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer-service")
	}
	return &Service{customers: customers, logger: logger}
}

// CreateCustomer создаёт клиента. Документ нормализуется до цифр перед
// сохранением; дубликаты возвращаются как ErrDuplicateEmail / ErrDuplicateDocument.
func (s *Service) CreateCustomer(in CreateCustomerInput) (domain.Customer, error) {
	customer := domain.Customer{
		Name:     in.Name,
		Email:    in.Email,
		Document: domain.NormalizeDocument(in.Document),
		IsActive: true,
	}
	if errs := customer.Validate(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	created, err := s.customers.Create(customer)
	if err != nil {
		s.logger.WithError(err).WithField("email", in.Email).Warn("customer creation failed")
		return domain.Customer{}, err
	}

	s.logger.WithFields(log.Fields{
		"customer_id": created.ID,
		"email":       created.Email,
	}).Info("customer created")
	return created, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(id int64) (domain.Customer, error) {
	return s.customers.GetByID(id)
}

// GetCustomerByEmail возвращает клиента по email.
func (s *Service) GetCustomerByEmail(email string) (domain.Customer, error) {
	return s.customers.GetByEmail(email)
}

// GetCustomerByDocument возвращает клиента по документу, нормализуя его перед поиском.
func (s *Service) GetCustomerByDocument(document string) (domain.Customer, error) {
	return s.customers.GetByDocument(domain.NormalizeDocument(document))
}

// ListCustomers возвращает страницу клиентов.
func (s *Service) ListCustomers(page, pageSize int) (Page, error) {
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
	customers, total, err := s.customers.List(skip, pageSize)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Customers:  customers,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// UpdateCustomer применяет частичное обновление и перепроверяет инварианты.
func (s *Service) UpdateCustomer(id int64, in UpdateCustomerInput) (domain.Customer, error) {
	customer, err := s.customers.GetByID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Document != nil {
		customer.Document = domain.NormalizeDocument(*in.Document)
	}
	if in.IsActive != nil {
		customer.IsActive = *in.IsActive
	}

	if errs := customer.Validate(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	updated, err := s.customers.Update(customer)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Warn("customer update failed")
		return domain.Customer{}, err
	}
	return updated, nil
}

// DeleteCustomer выполняет мягкое удаление клиента.
func (s *Service) DeleteCustomer(id int64) error {
	if err := s.customers.SoftDelete(id); err != nil {
		return err
	}
	s.logger.WithField("customer_id", id).Info("customer soft-deleted")
	return nil
}
