package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/retail-oms/internal/service/customer"
)

// createCustomer обрабатывает POST /api/v1/customers.
func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := h.customers.CreateCustomer(customer.CreateCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Document: req.Document,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "customer created", toCustomerResponse(created))
}

// getCustomer обрабатывает GET /api/v1/customers/{id}, а также поиск
// по email или document через query-параметры.
func (h *Handlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.customers.GetCustomer(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "customer found", toCustomerResponse(found))
}

// listCustomers обрабатывает GET /api/v1/customers. При заданных email или
// document возвращает единственное совпадение вместо страницы.
func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		found, err := h.customers.GetCustomerByEmail(email)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, "customer found", toCustomerResponse(found))
		return
	}
	if document := r.URL.Query().Get("document"); document != "" {
		found, err := h.customers.GetCustomerByDocument(document)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, "customer found", toCustomerResponse(found))
		return
	}

	result, err := h.customers.ListCustomers(queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	customers := make([]customerResponse, 0, len(result.Customers))
	for _, c := range result.Customers {
		customers = append(customers, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, "customers listed", customerPageResponse{
		Customers: customers,
		pageMeta: pageMeta{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	})
}

// updateCustomer обрабатывает PATCH /api/v1/customers/{id}.
func (h *Handlers) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.customers.UpdateCustomer(id, customer.UpdateCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Document: req.Document,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "customer updated", toCustomerResponse(updated))
}

// deleteCustomer обрабатывает DELETE /api/v1/customers/{id} (мягкое удаление).
func (h *Handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.customers.DeleteCustomer(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "customer deactivated", nil)
}
