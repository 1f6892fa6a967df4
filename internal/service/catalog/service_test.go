package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
	"github.com/vladislavdragonenkov/retail-oms/internal/storage/memory"
)

func newTestService() (*Service, *memory.ProductRepository) {
	repo := memory.NewProductRepository()
	return NewService(repo, nil), repo
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateProduct(CreateProductInput{
		Name:       "Paracetamol 500mg",
		SKU:        "MED-PARA-500",
		PriceMinor: 1250,
		StockQty:   200,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1250), created.PriceMinor)

	_, err = svc.CreateProduct(CreateProductInput{
		Name: "Copy", SKU: "MED-PARA-500", PriceMinor: 1, IsActive: true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(CreateProductInput{SKU: "S", PriceMinor: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProductNameRequired)
	assert.ErrorIs(t, err, domain.ErrProductPriceInvalid)
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.CreateProduct(CreateProductInput{
		Name: "Item", SKU: "SKU-1", PriceMinor: 100, StockQty: 5, IsActive: true,
	})
	require.NoError(t, err)

	newPrice := int64(250)
	updated, err := svc.UpdateProduct(created.ID, UpdateProductInput{PriceMinor: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.PriceMinor)
	assert.Equal(t, "Item", updated.Name)
	assert.Equal(t, int32(5), updated.StockQty)

	badPrice := int64(0)
	_, err = svc.UpdateProduct(created.ID, UpdateProductInput{PriceMinor: &badPrice})
	assert.ErrorIs(t, err, domain.ErrProductPriceInvalid)
}

func TestDeleteProductIsSoft(t *testing.T) {
	svc, repo := newTestService()
	created, err := svc.CreateProduct(CreateProductInput{
		Name: "Item", SKU: "SKU-1", PriceMinor: 100, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(created.ID))

	got, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, svc.DeleteProduct(999), domain.ErrProductNotFound)
}

func TestListProductsFilter(t *testing.T) {
	svc, _ := newTestService()
	for _, in := range []CreateProductInput{
		{Name: "Paracetamol 500mg", SKU: "MED-1", PriceMinor: 100, IsActive: true},
		{Name: "Ibuprofeno 400mg", SKU: "MED-2", PriceMinor: 100, IsActive: true},
		{Name: "Paracetamol 750mg", SKU: "MED-3", PriceMinor: 100, IsActive: false},
	} {
		_, err := svc.CreateProduct(in)
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(ListProductsInput{Filter: domain.ProductListFilter{Name: "paracetamol"}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	active := true
	page, err = svc.ListProducts(ListProductsInput{Filter: domain.ProductListFilter{
		Name: "paracetamol", IsActive: &active,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "MED-1", page.Products[0].SKU)

	page, err = svc.ListProducts(ListProductsInput{Filter: domain.ProductListFilter{SKU: "MED-2"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestGetProductBySKU(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.CreateProduct(CreateProductInput{
		Name: "Item", SKU: "SKU-XYZ", PriceMinor: 100, IsActive: true,
	})
	require.NoError(t, err)

	got, err := svc.GetProductBySKU("SKU-XYZ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetProductBySKU("missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
