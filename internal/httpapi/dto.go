package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// Денежные суммы в API передаются в минорных единицах валюты (копейки,
// центы), поэтому все поля *_minor целочисленные.

type orderItemResponse struct {
	ID             int64 `json:"id"`
	ProductID      int64 `json:"product_id"`
	UnitPriceMinor int64 `json:"unit_price_minor"`
	Quantity       int32 `json:"quantity"`
	LineTotalMinor int64 `json:"line_total_minor"`
}

type orderResponse struct {
	ID             int64               `json:"id"`
	CustomerID     int64               `json:"customer_id"`
	TotalMinor     int64               `json:"total_minor"`
	Status         string              `json:"status"`
	IdempotencyKey string              `json:"idempotency_key"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type productResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	PriceMinor int64     `json:"price_minor"`
	StockQty   int32     `json:"stock_qty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type customerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Document  string    `json:"document"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type pageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

type orderPageResponse struct {
	Orders []orderResponse `json:"orders"`
	pageMeta
}

type productPageResponse struct {
	Products []productResponse `json:"products"`
	pageMeta
}

type customerPageResponse struct {
	Customers []customerResponse `json:"customers"`
	pageMeta
}

type createOrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID int64                    `json:"customer_id"`
	Items      []createOrderItemRequest `json:"items"`
}

type createProductRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceMinor int64  `json:"price_minor"`
	StockQty   int32  `json:"stock_qty"`
	IsActive   *bool  `json:"is_active"`
}

type updateProductRequest struct {
	Name       *string `json:"name"`
	SKU        *string `json:"sku"`
	PriceMinor *int64  `json:"price_minor"`
	StockQty   *int32  `json:"stock_qty"`
	IsActive   *bool   `json:"is_active"`
}

type createCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
}

type updateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Document *string `json:"document"`
	IsActive *bool   `json:"is_active"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			UnitPriceMinor: item.UnitPriceMinor,
			Quantity:       item.Quantity,
			LineTotalMinor: item.LineTotalMinor,
		})
	}
	return orderResponse{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		TotalMinor:     order.TotalMinor,
		Status:         string(order.Status),
		IdempotencyKey: order.IdempotencyKey,
		Items:          items,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:         product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		PriceMinor: product.PriceMinor,
		StockQty:   product.StockQty,
		IsActive:   product.IsActive,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func toCustomerResponse(customer domain.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Document:  customer.Document,
		IsActive:  customer.IsActive,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}
