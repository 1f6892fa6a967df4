package catalog

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateProductInput — входные данные создания товара.
type CreateProductInput struct {
	Name       string
	SKU        string
	PriceMinor int64
	StockQty   int32
	IsActive   bool
}

// UpdateProductInput — частичное обновление: nil-поля не трогаются.
type UpdateProductInput struct {
	Name       *string
	SKU        *string
	PriceMinor *int64
	StockQty   *int32
	IsActive   *bool
}

// ListProductsInput — параметры списка товаров.
type ListProductsInput struct {
	Page     int
	PageSize int
	Filter   domain.ProductListFilter
}

// Page — страница товаров с метаданными пагинации.
type Page struct {
	Products   []domain.Product
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Service реализует CRUD каталога товаров.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService конструирует сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-service")
	}
	return &Service{products: products, logger: logger}
}

// CreateProduct создаёт товар. Дубликат SKU возвращается как ErrDuplicateSKU.
func (s *Service) CreateProduct(in CreateProductInput) (domain.Product, error) {
	product := domain.Product{
		Name:       in.Name,
		SKU:        in.SKU,
		PriceMinor: in.PriceMinor,
		StockQty:   in.StockQty,
		IsActive:   in.IsActive,
	}
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	created, err := s.products.Create(product)
	if err != nil {
		s.logger.WithError(err).WithField("sku", in.SKU).Warn("product creation failed")
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": created.ID,
		"sku":        created.SKU,
	}).Info("product created")
	return created, nil
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(id int64) (domain.Product, error) {
	return s.products.GetByID(id)
}

// GetProductBySKU возвращает товар по точному SKU.
func (s *Service) GetProductBySKU(sku string) (domain.Product, error) {
	return s.products.GetBySKU(sku)
}

// ListProducts возвращает страницу товаров по фильтру.
func (s *Service) ListProducts(in ListProductsInput) (Page, error) {
	page, pageSize := clampPage(in.Page, in.PageSize)

	skip := (page - 1) * pageSize
	products, total, err := s.products.List(skip, pageSize, in.Filter)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Products:   products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// UpdateProduct применяет частичное обновление и перепроверяет инварианты.
func (s *Service) UpdateProduct(id int64, in UpdateProductInput) (domain.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.PriceMinor != nil {
		product.PriceMinor = *in.PriceMinor
	}
	if in.StockQty != nil {
		product.StockQty = *in.StockQty
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	updated, err := s.products.Update(product)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("product update failed")
		return domain.Product{}, err
	}
	return updated, nil
}

// DeleteProduct выполняет мягкое удаление: строка остаётся, is_active=false.
func (s *Service) DeleteProduct(id int64) error {
	if err := s.products.SoftDelete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product soft-deleted")
	return nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
