package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/messaging/kafka"
	"github.com/andreimorozov/sales/internal/metrics"
)

// ItemRequest описывает одну запрошенную позицию продажи.
type ItemRequest struct {
	ProductID string
	Quantity  int32
}

// CreateRequest описывает запрос на создание продажи.
type CreateRequest struct {
	CustomerID    string
	Items         []ItemRequest
	PaymentMethod domain.PaymentMethod
	Notes         string
}

// Engine реализует транзакционную логику продаж: проверку стока, фиксацию
// цены, списание и возврат, запись продажи в леджер.
type Engine struct {
	catalog   domain.CatalogStore
	customers domain.CustomerStore
	ledger    domain.SaleLedger
	logger    *log.Entry
	metrics   *metrics.SalesMetrics
	producer  *kafka.Producer // опциональный Kafka producer для событий продаж
}

// NewEngine создаёт рабочий экземпляр движка продаж.
func NewEngine(
	catalog domain.CatalogStore,
	customers domain.CustomerStore,
	ledger domain.SaleLedger,
	logger *log.Entry,
) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	return &Engine{
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
		logger:    logger,
		metrics:   metrics.NewSalesMetrics(),
	}
}

// NewEngineWithKafka создаёт движок с Kafka producer для публикации событий продаж.
func NewEngineWithKafka(
	catalog domain.CatalogStore,
	customers domain.CustomerStore,
	ledger domain.SaleLedger,
	producer *kafka.Producer,
	logger *log.Entry,
) *Engine {
	engine := NewEngine(catalog, customers, ledger, logger)
	engine.producer = producer
	return engine
}

// NewEngineWithoutMetrics создаёт движок без метрик (для тестов).
func NewEngineWithoutMetrics(
	catalog domain.CatalogStore,
	customers domain.CustomerStore,
	ledger domain.SaleLedger,
	logger *log.Entry,
) *Engine {
	engine := NewEngine(catalog, customers, ledger, logger)
	engine.metrics = nil
	return engine
}

// Create валидирует запрос, последовательно списывает сток по позициям и
// записывает продажу в леджер со статусом pending.
//
// Списание выполняется по каждой позиции отдельно и фиксируется сразу:
// повторная позиция того же товара в одном запросе видит уже уменьшенный
// остаток. Откат ранее списанных позиций при отказе последующей не
// выполняется — ядро переносит этот разрыв наружу, а не маскирует его.
func (e *Engine) Create(req CreateRequest) (domain.Sale, error) {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	// Валидация до первой мутации.
	if req.CustomerID == "" {
		e.recordFailure()
		return domain.Sale{}, domain.ErrCustomerRequired
	}
	if len(req.Items) == 0 {
		e.recordFailure()
		return domain.Sale{}, domain.ErrEmptyOrder
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			e.recordFailure()
			return domain.Sale{}, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrQuantityInvalid)
		}
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}
	if !paymentMethod.Valid() {
		e.recordFailure()
		return domain.Sale{}, domain.ErrPaymentMethodInvalid
	}

	if _, err := e.customers.GetCustomer(req.CustomerID); err != nil {
		e.recordFailure()
		e.logger.WithError(err).WithField("customer_id", req.CustomerID).Warn("customer lookup failed")
		return domain.Sale{}, err
	}

	lines := make([]domain.LineItem, 0, len(req.Items))
	total := decimal.Zero
	var units int32

	for _, item := range req.Items {
		product, err := e.catalog.GetProduct(item.ProductID)
		if err != nil {
			e.recordFailure()
			e.logger.WithError(err).WithField("product_id", item.ProductID).Warn("product lookup failed")
			return domain.Sale{}, err
		}

		if product.Stock < item.Quantity {
			e.recordFailure()
			if e.metrics != nil {
				e.metrics.RecordStockRejection()
			}
			return domain.Sale{}, &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}

		// Снимок текущей цены каталога; строка не зависит от будущих изменений цены.
		subtotal := product.Price.Mul(decimal.NewFromInt32(item.Quantity))
		lines = append(lines, domain.LineItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})

		product.Stock -= item.Quantity
		if err := e.catalog.SaveProduct(product); err != nil {
			e.recordFailure()
			return domain.Sale{}, fmt.Errorf("debit stock for product %s: %w", product.ID, err)
		}

		total = total.Add(subtotal)
		units += item.Quantity
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		ID:            uuid.NewString(),
		CustomerID:    req.CustomerID,
		Items:         lines,
		Total:         total,
		Status:        domain.SaleStatusPending,
		PaymentMethod: paymentMethod,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := e.ledger.Create(sale); err != nil {
		// Сток уже списан; запись продажи не удалась. Окно рассинхронизации
		// разрешается оператором, ядро ошибку не компенсирует.
		e.recordFailure()
		e.logger.WithError(err).WithField("sale_id", sale.ID).Error("persist sale failed after stock debit")
		return domain.Sale{}, fmt.Errorf("persist sale: %w", err)
	}

	if e.metrics != nil {
		e.metrics.RecordSaleCreated(units)
	}
	e.logger.WithFields(log.Fields{
		"sale_id":     sale.ID,
		"customer_id": sale.CustomerID,
		"items":       len(sale.Items),
		"total":       sale.Total.String(),
	}).Info("sale created")

	e.publishSaleEvent(kafka.EventTypeSaleCreated, &sale, map[string]interface{}{
		"total": sale.Total.String(),
		"items": len(sale.Items),
	})

	return sale, nil
}

// Cancel возвращает сток по позициям продажи и переводит её в cancelled.
// Операция одноразовая: повторный вызов получает ErrSaleAlreadyCancelled.
func (e *Engine) Cancel(saleID string) (domain.Sale, error) {
	sale, err := e.ledger.Get(saleID)
	if err != nil {
		e.logger.WithError(err).WithField("sale_id", saleID).Warn("sale lookup failed for cancel")
		return domain.Sale{}, err
	}

	if !domain.CanCancel(sale.Status) {
		return domain.Sale{}, domain.ErrSaleAlreadyCancelled
	}

	for _, item := range sale.Items {
		product, err := e.catalog.GetProduct(item.ProductID)
		if err != nil {
			if domain.IsNotFound(err) {
				// Товар удалён из каталога после продажи: возврат по этой
				// позиции пропускается, отмена продолжается.
				e.logger.WithFields(log.Fields{
					"sale_id":    sale.ID,
					"product_id": item.ProductID,
				}).Warn("product missing during restock, skipping")
				continue
			}
			return domain.Sale{}, fmt.Errorf("load product %s for restock: %w", item.ProductID, err)
		}

		product.Stock += item.Quantity
		if err := e.catalog.SaveProduct(product); err != nil {
			return domain.Sale{}, fmt.Errorf("credit stock for product %s: %w", product.ID, err)
		}
	}

	updated, err := e.ledger.UpdateStatus(sale.ID, domain.SaleStatusCancelled)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("persist cancellation: %w", err)
	}

	if e.metrics != nil {
		e.metrics.RecordSaleCancelled()
	}
	e.logger.WithField("sale_id", updated.ID).Info("sale cancelled")

	e.publishSaleEvent(kafka.EventTypeSaleCancelled, &updated, nil)

	return updated, nil
}

// SetStatus меняет статус продажи. Легальность перехода определяет статусная
// машина домена; до cancelled этим путём дойти нельзя.
func (e *Engine) SetStatus(saleID string, status domain.SaleStatus) (domain.Sale, error) {
	sale, err := e.ledger.Get(saleID)
	if err != nil {
		e.logger.WithError(err).WithField("sale_id", saleID).Warn("sale lookup failed for status update")
		return domain.Sale{}, err
	}

	if err := domain.ValidateTransition(sale.Status, status); err != nil {
		return domain.Sale{}, err
	}

	updated, err := e.ledger.UpdateStatus(sale.ID, status)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("persist status: %w", err)
	}

	e.logger.WithFields(log.Fields{
		"sale_id": updated.ID,
		"status":  updated.Status,
	}).Info("sale status updated")

	e.publishSaleEvent(kafka.EventTypeSaleStatusChanged, &updated, map[string]interface{}{
		"previous_status": string(sale.Status),
	})

	return updated, nil
}

func (e *Engine) recordFailure() {
	if e.metrics != nil {
		e.metrics.RecordSaleFailed()
	}
}

// publishSaleEvent публикует событие продажи в Kafka (если producer настроен).
func (e *Engine) publishSaleEvent(eventType kafka.EventType, sale *domain.Sale, metadata map[string]interface{}) {
	if e.producer == nil {
		return
	}

	event := kafka.NewSaleEvent(eventType, sale.ID, sale.CustomerID, string(sale.Status), metadata)
	if err := e.producer.PublishEvent(kafka.TopicSaleEvents, sale.ID, event); err != nil {
		// Kafka опциональный: ошибку публикации логируем, операцию не прерываем.
		e.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"sale_id":    sale.ID,
		}).Warn("failed to publish sale event to kafka")
		return
	}
	if e.metrics != nil {
		e.metrics.RecordEventPublished()
	}
}
