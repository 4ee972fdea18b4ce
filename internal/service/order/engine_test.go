package order_test

import (
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/service/order"
	"github.com/andreimorozov/sales/internal/storage/memory"
)

type fixture struct {
	engine    *order.Engine
	catalog   domain.CatalogStore
	customers interface {
		domain.CustomerStore
		Put(domain.Customer)
	}
	ledger domain.SaleLedger
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "order-engine-test")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog := memory.NewCatalogStoreSeeded([]domain.Product{
		{
			ID:       "product-1",
			Name:     "Keyboard",
			Price:    decimal.RequireFromString("25.90"),
			Stock:    10,
			Category: "Peripherals",
			Active:   true,
		},
		{
			ID:       "product-2",
			Name:     "Mouse",
			Price:    decimal.RequireFromString("12.50"),
			Stock:    5,
			Category: "Peripherals",
			Active:   true,
		},
	})
	customers := memory.NewCustomerStore()
	customers.Put(domain.Customer{ID: "customer-1", Name: "Maria Silva"})
	ledger := memory.NewSaleLedger()

	return &fixture{
		engine:    order.NewEngineWithoutMetrics(catalog, customers, ledger, loggerForTests()),
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
	}
}

func (f *fixture) stock(t *testing.T, productID string) int32 {
	t.Helper()
	product, err := f.catalog.GetProduct(productID)
	require.NoError(t, err)
	return product.Stock
}

func TestEngine_Create_Success(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 3}},
	})
	require.NoError(t, err)

	require.True(t, sale.Total.Equal(decimal.RequireFromString("77.70")), "total %s", sale.Total)
	require.Equal(t, domain.SaleStatusPending, sale.Status)
	require.Equal(t, domain.PaymentMethodCash, sale.PaymentMethod, "payment method defaults to cash")
	require.Len(t, sale.Items, 1)
	require.True(t, sale.Items[0].UnitPrice.Equal(decimal.RequireFromString("25.90")))
	require.True(t, sale.Items[0].Subtotal.Equal(decimal.RequireFromString("77.70")))
	require.NotEmpty(t, sale.ID)
	require.False(t, sale.CreatedAt.IsZero())

	require.Equal(t, int32(7), f.stock(t, "product-1"))

	persisted, err := f.ledger.Get(sale.ID)
	require.NoError(t, err)
	require.Empty(t, persisted.ValidateInvariants())
}

func TestEngine_Create_MissingCustomerID(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		Items: []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Create_EmptyItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{CustomerID: "customer-1"})
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestEngine_Create_InvalidQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 0}},
	})
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)

	// Валидация отклоняет запрос до первой мутации стока.
	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Create_InvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		CustomerID:    "customer-1",
		Items:         []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
		PaymentMethod: domain.PaymentMethod("bitcoin"),
	})
	require.ErrorIs(t, err, domain.ErrPaymentMethodInvalid)
}

func TestEngine_Create_CustomerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		CustomerID: "ghost",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Create_ProductNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items: []order.ItemRequest{
			{ProductID: "product-1", Quantity: 2},
			{ProductID: "ghost", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	var typed *domain.ProductNotFoundError
	require.ErrorAs(t, err, &typed)
	require.Equal(t, "ghost", typed.ProductID)

	// Продажа не создана; списание первой позиции при этом уже зафиксировано.
	sales, err := f.ledger.List(domain.SaleFilter{})
	require.NoError(t, err)
	require.Empty(t, sales)
	require.Equal(t, int32(8), f.stock(t, "product-1"))
}

func TestEngine_Create_InsufficientStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 20}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var typed *domain.InsufficientStockError
	require.ErrorAs(t, err, &typed)
	require.Equal(t, "product-1", typed.ProductID)
	require.Equal(t, int32(20), typed.Requested)
	require.Equal(t, int32(10), typed.Available)

	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Create_DuplicateProductSeesDebitedStock(t *testing.T) {
	f := newFixture(t)

	// product-2 имеет сток 5: первая позиция списывает 3, второй не хватает.
	_, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items: []order.ItemRequest{
			{ProductID: "product-2", Quantity: 3},
			{ProductID: "product-2", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var typed *domain.InsufficientStockError
	require.ErrorAs(t, err, &typed)
	require.Equal(t, int32(2), typed.Available)

	// Списание первой позиции остаётся: откат не выполняется.
	require.Equal(t, int32(2), f.stock(t, "product-2"))
}

func TestEngine_Create_DuplicateProductWithinStock(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items: []order.ItemRequest{
			{ProductID: "product-2", Quantity: 2},
			{ProductID: "product-2", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// Дубликаты не схлопываются: две отдельные позиции.
	require.Len(t, sale.Items, 2)
	require.True(t, sale.Total.Equal(decimal.RequireFromString("50.00")))
	require.Equal(t, int32(1), f.stock(t, "product-2"))
}

func TestEngine_Create_PriceSnapshot(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.NoError(t, err)

	// Подорожание товара после продажи не меняет зафиксированную цену строки.
	product, err := f.catalog.GetProduct("product-1")
	require.NoError(t, err)
	product.Price = decimal.RequireFromString("99.00")
	require.NoError(t, f.catalog.SaveProduct(product))

	persisted, err := f.ledger.Get(sale.ID)
	require.NoError(t, err)
	require.True(t, persisted.Items[0].UnitPrice.Equal(decimal.RequireFromString("25.90")))
	require.True(t, persisted.Total.Equal(decimal.RequireFromString("25.90")))
}

func TestEngine_Cancel_RestoresStock(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int32(7), f.stock(t, "product-1"))

	cancelled, err := f.engine.Cancel(sale.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SaleStatusCancelled, cancelled.Status)
	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Cancel_Idempotent(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = f.engine.Cancel(sale.ID)
	require.NoError(t, err)

	_, err = f.engine.Cancel(sale.ID)
	require.ErrorIs(t, err, domain.ErrSaleAlreadyCancelled)

	// Повторная отмена не возвращает сток второй раз.
	require.Equal(t, int32(10), f.stock(t, "product-1"))
}

func TestEngine_Cancel_MissingSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Cancel("ghost")
	require.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestEngine_Cancel_SkipsDeletedProduct(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items: []order.ItemRequest{
			{ProductID: "product-1", Quantity: 2},
			{ProductID: "product-2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	deleter, ok := f.catalog.(interface{ Delete(id string) })
	require.True(t, ok, "catalog store does not support Delete")
	deleter.Delete("product-1")

	cancelled, err := f.engine.Cancel(sale.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SaleStatusCancelled, cancelled.Status)

	// Удалённый товар пропущен, оставшийся возвращён.
	_, err = f.catalog.GetProduct("product-1")
	require.True(t, errors.Is(err, domain.ErrProductNotFound))
	require.Equal(t, int32(5), f.stock(t, "product-2"))
}

func TestEngine_SetStatus_Forward(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := f.engine.SetStatus(sale.ID, domain.SaleStatusProcessing)
	require.NoError(t, err)
	require.Equal(t, domain.SaleStatusProcessing, updated.Status)

	updated, err = f.engine.SetStatus(sale.ID, domain.SaleStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.SaleStatusDelivered, updated.Status)

	// Обратное переназначение между активными статусами разрешено.
	updated, err = f.engine.SetStatus(sale.ID, domain.SaleStatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.SaleStatusPending, updated.Status)
}

func TestEngine_SetStatus_CancelledRejected(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.engine.SetStatus(sale.ID, domain.SaleStatusCancelled)
	require.ErrorIs(t, err, domain.ErrCancelViaSetStatus)

	_, err = f.engine.Cancel(sale.ID)
	require.NoError(t, err)

	_, err = f.engine.SetStatus(sale.ID, domain.SaleStatusProcessing)
	require.ErrorIs(t, err, domain.ErrStatusTerminal)
}

func TestEngine_SetStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	sale, err := f.engine.Create(order.CreateRequest{
		CustomerID: "customer-1",
		Items:      []order.ItemRequest{{ProductID: "product-1", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.engine.SetStatus(sale.ID, domain.SaleStatus("archived"))
	require.ErrorIs(t, err, domain.ErrStatusInvalid)
}

func TestEngine_SetStatus_MissingSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.SetStatus("ghost", domain.SaleStatusProcessing)
	require.ErrorIs(t, err, domain.ErrSaleNotFound)
}
