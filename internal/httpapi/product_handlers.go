package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/catalog"
)

// createProduct обрабатывает POST /api/v1/products.
func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := h.catalog.CreateProduct(catalog.CreateProductInput{
		Name:       req.Name,
		SKU:        req.SKU,
		PriceMinor: req.PriceMinor,
		StockQty:   req.StockQty,
		IsActive:   isActive,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "product created", toProductResponse(created))
}

// getProduct обрабатывает GET /api/v1/products/{id}.
func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.catalog.GetProduct(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "product found", toProductResponse(found))
}

// listProducts обрабатывает GET /api/v1/products с фильтрами
// is_active, name (подстрока) и sku (точное совпадение).
func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProductListFilter
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_active: "+raw)
			return
		}
		filter.IsActive = &parsed
	}
	filter.Name = r.URL.Query().Get("name")
	filter.SKU = r.URL.Query().Get("sku")

	result, err := h.catalog.ListProducts(catalog.ListProductsInput{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 0),
		Filter:   filter,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	products := make([]productResponse, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, "products listed", productPageResponse{
		Products: products,
		pageMeta: pageMeta{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	})
}

// updateProduct обрабатывает PATCH /api/v1/products/{id}.
func (h *Handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.catalog.UpdateProduct(id, catalog.UpdateProductInput{
		Name:       req.Name,
		SKU:        req.SKU,
		PriceMinor: req.PriceMinor,
		StockQty:   req.StockQty,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "product updated", toProductResponse(updated))
}

// deleteProduct обрабатывает DELETE /api/v1/products/{id} (мягкое удаление).
func (h *Handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "product deactivated", nil)
}
