package domain

// StockDecrement описывает списание остатка по товару, выполняемое
// в одной транзакции с созданием заказа.
type StockDecrement struct {
	ProductID int64
	Quantity  int32
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заголовок заказа и все позиции и применяет списания
	// остатков в одной транзакции. Списание условное: если остатка не хватает,
	// вся транзакция откатывается с InsufficientStockError. Конфликт по ключу
	// идемпотентности возвращается как ErrDuplicateIdempotencyKey.
	Create(order Order, decrements []StockDecrement) (Order, error)
	// GetByID возвращает заказ с позициями или ErrOrderNotFound.
	GetByID(id int64) (Order, error)
	// GetByIdempotencyKey возвращает заказ по точному совпадению ключа
	// или ErrOrderNotFound.
	GetByIdempotencyKey(key string) (Order, error)
	// UpdateStatus сохраняет только статус и updated_at; позиции и сумма
	// после создания неизменяемы.
	UpdateStatus(order Order) (Order, error)
	// List возвращает страницу заказов и общее количество по фильтру.
	// Количество считается по отфильтрованному набору до применения skip/limit.
	// customerID=0 означает отсутствие фильтра.
	List(skip, limit int, customerID int64) ([]Order, int, error)
}

// ProductListFilter — опциональные фильтры списка товаров.
type ProductListFilter struct {
	// IsActive=nil — без фильтра по активности.
	IsActive *bool
	// Name фильтрует по подстроке без учёта регистра, SKU — точное совпадение.
	Name string
	SKU  string
}

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет товар; дубликат SKU возвращается как ErrDuplicateSKU.
	Create(product Product) (Product, error)
	// GetByID возвращает товар или ErrProductNotFound.
	GetByID(id int64) (Product, error)
	// GetBySKU возвращает товар по точному SKU или ErrProductNotFound.
	GetBySKU(sku string) (Product, error)
	// List возвращает страницу товаров и общее количество по фильтру.
	List(skip, limit int, filter ProductListFilter) ([]Product, int, error)
	// Update перезаписывает изменяемые поля товара.
	Update(product Product) (Product, error)
	// SoftDelete помечает товар неактивным, строка остаётся.
	SoftDelete(id int64) error
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет клиента; дубликаты возвращаются как
	// ErrDuplicateEmail / ErrDuplicateDocument.
	Create(customer Customer) (Customer, error)
	// GetByID возвращает клиента или ErrCustomerNotFound.
	GetByID(id int64) (Customer, error)
	// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
	GetByEmail(email string) (Customer, error)
	// GetByDocument возвращает клиента по нормализованному документу
	// или ErrCustomerNotFound.
	GetByDocument(document string) (Customer, error)
	// List возвращает страницу клиентов и общее количество.
	List(skip, limit int) ([]Customer, int, error)
	// Update перезаписывает изменяемые поля клиента.
	Update(customer Customer) (Customer, error)
	// SoftDelete помечает клиента неактивным.
	SoftDelete(id int64) error
}
