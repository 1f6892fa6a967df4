package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/retail-oms/internal/service/order"
)

const idempotencyKeyHeader = "Idempotency-Key"

// createOrder обрабатывает POST /api/v1/orders.
// Ключ идемпотентности обязателен и передаётся заголовком Idempotency-Key.
func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" {
		writeError(w, http.StatusBadRequest, "Idempotency-Key header is required")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	items := make([]order.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := h.orders.CreateOrder(order.CreateOrderInput{
		CustomerID:     req.CustomerID,
		Items:          items,
		IdempotencyKey: key,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "order created", toOrderResponse(created))
}

// getOrder обрабатывает GET /api/v1/orders/{id}.
func (h *Handlers) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.orders.GetOrder(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "order found", toOrderResponse(found))
}

// cancelOrder обрабатывает POST /api/v1/orders/{id}/cancel.
func (h *Handlers) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cancelled, err := h.orders.CancelOrder(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "order cancelled", toOrderResponse(cancelled))
}

// payOrder обрабатывает POST /api/v1/orders/{id}/pay.
func (h *Handlers) payOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	paid, err := h.orders.MarkOrderPaid(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "order paid", toOrderResponse(paid))
}

// listOrders обрабатывает GET /api/v1/orders?page=&page_size=&customer_id=.
func (h *Handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)
	customerID := int64(queryInt(r, "customer_id", 0))

	result, err := h.orders.ListOrders(page, pageSize, customerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders := make([]orderResponse, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, "orders listed", orderPageResponse{
		Orders: orders,
		pageMeta: pageMeta{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	})
}

// pathID извлекает числовой идентификатор из пути, сам пишет 400 при ошибке.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id: "+raw)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
