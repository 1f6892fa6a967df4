package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/retail-oms/internal/httpapi"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/catalog"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/customer"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/order"
	"github.com/vladislavdragonenkov/retail-oms/internal/storage/memory"
)

// Сквозной сценарий через реальный HTTP-сервер: регистрация клиента и
// товаров, создание заказа с идемпотентностью, оплата и листинг.

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository(products)

	handlers := httpapi.NewHandlers(
		order.NewServiceWithoutMetrics(orders, products, customers, nil),
		catalog.NewService(products, nil),
		customer.NewService(customers, nil),
		nil,
	)
	server := httptest.NewServer(handlers.Router())
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, method, url, idempotencyKey string, body any) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestOrderFlow(t *testing.T) {
	server := startServer(t)
	base := server.URL + "/api/v1"

	// Клиент.
	status, env := call(t, http.MethodPost, base+"/customers", "", map[string]any{
		"name": "Ana Souza", "email": "ana@example.com", "document": "123.456.789-01",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var cust struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cust))

	// Два товара: 10.00 со складом 100 и 15.00 со складом 50.
	productIDs := make([]int64, 0, 2)
	for _, p := range []map[string]any{
		{"name": "Paracetamol 500mg", "sku": "MED-PARA-500", "price_minor": 1000, "stock_qty": 100},
		{"name": "Ibuprofeno 400mg", "sku": "MED-IBUP-400", "price_minor": 1500, "stock_qty": 50},
	} {
		status, env := call(t, http.MethodPost, base+"/products", "", p)
		require.Equal(t, http.StatusCreated, status, env.Message)
		var prod struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &prod))
		productIDs = append(productIDs, prod.ID)
	}

	// Заказ: 2 x 10.00 + 3 x 15.00 = 65.00.
	orderBody := map[string]any{
		"customer_id": cust.ID,
		"items": []map[string]any{
			{"product_id": productIDs[0], "quantity": 2},
			{"product_id": productIDs[1], "quantity": 3},
		},
	}
	status, env = call(t, http.MethodPost, base+"/orders", "flow-key", orderBody)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var created struct {
		ID         int64  `json:"id"`
		TotalMinor int64  `json:"total_minor"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(6500), created.TotalMinor)
	assert.Equal(t, "created", created.Status)

	// Остатки списаны: 98 и 47.
	wantStocks := []int32{98, 47}
	for i, productID := range productIDs {
		status, env := call(t, http.MethodGet, fmt.Sprintf("%s/products/%d", base, productID), "", nil)
		require.Equal(t, http.StatusOK, status)
		var prod struct {
			StockQty int32 `json:"stock_qty"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &prod))
		assert.Equal(t, wantStocks[i], prod.StockQty)
	}

	// Повтор с тем же ключом возвращает тот же заказ и не списывает остатки повторно.
	status, env = call(t, http.MethodPost, base+"/orders", "flow-key", orderBody)
	require.Equal(t, http.StatusCreated, status)
	var replayed struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &replayed))
	assert.Equal(t, created.ID, replayed.ID)

	// Оплата и запрет повторной оплаты.
	status, env = call(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/pay", base, created.ID), "", nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = call(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/pay", base, created.ID), "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Листинг по клиенту.
	status, env = call(t, http.MethodGet, fmt.Sprintf("%s/orders?customer_id=%d", base, cust.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Orders []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"orders"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "paid", page.Orders[0].Status)
}

func TestOrderFlowInsufficientStock(t *testing.T) {
	server := startServer(t)
	base := server.URL + "/api/v1"

	status, env := call(t, http.MethodPost, base+"/customers", "", map[string]any{
		"name": "Bruno Lima", "email": "bruno@example.com", "document": "98765432100",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var cust struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cust))

	status, env = call(t, http.MethodPost, base+"/products", "", map[string]any{
		"name": "Termômetro Digital", "sku": "EQP-TERM-DIG", "price_minor": 4550, "stock_qty": 1,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var prod struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prod))

	status, env = call(t, http.MethodPost, base+"/orders", "stock-key", map[string]any{
		"customer_id": cust.ID,
		"items":       []map[string]any{{"product_id": prod.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Message, "available 1, requested 2")

	// Остаток не изменился.
	status, env = call(t, http.MethodGet, fmt.Sprintf("%s/products/%d", base, prod.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var after struct {
		StockQty int32 `json:"stock_qty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, int32(1), after.StockQty)
}
