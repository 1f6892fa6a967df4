package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/retail-oms/internal/service/catalog"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/customer"
	"github.com/vladislavdragonenkov/retail-oms/internal/service/order"
)

// Handlers собирает HTTP-обработчики всех сервисов.
type Handlers struct {
	orders    *order.Service
	catalog   *catalog.Service
	customers *customer.Service
	logger    *log.Entry
}

// NewHandlers конструирует набор обработчиков.
func NewHandlers(
	orders *order.Service,
	catalogSvc *catalog.Service,
	customers *customer.Service,
	logger *log.Entry,
) *Handlers {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handlers{
		orders:    orders,
		catalog:   catalogSvc,
		customers: customers,
		logger:    logger,
	}
}

// Router возвращает настроенный маршрутизатор API.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Post("/{id}/cancel", h.cancelOrder)
			r.Post("/{id}/pay", h.payOrder)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
			r.Patch("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.createCustomer)
			r.Get("/", h.listCustomers)
			r.Get("/{id}", h.getCustomer)
			r.Patch("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})
	})

	return r
}
