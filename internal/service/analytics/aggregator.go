package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/metrics"
)

// topProductsLimit ограничивает список самых продаваемых товаров в сводке.
const topProductsLimit = 10

// ProductSummary — накопленные продажи одного товара за период.
type ProductSummary struct {
	ProductID    string
	Name         string
	Category     string
	QuantitySold int32
	Revenue      decimal.Decimal
}

// CategorySummary — накопленные продажи одной категории за период.
type CategorySummary struct {
	Category     string
	QuantitySold int32
	Revenue      decimal.Decimal
}

// PeriodSummary — итог аналитики за период.
type PeriodSummary struct {
	Start             time.Time
	End               time.Time
	SalesCount        int
	GrossRevenue      decimal.Decimal
	AverageTicket     decimal.Decimal
	UnitsSold         int32
	TopProducts       []ProductSummary
	CategoryBreakdown []CategorySummary
}

// Aggregator складывает завершённые продажи периода в сводку по товарам
// и категориям. Отменённые продажи в расчёт не входят.
type Aggregator struct {
	ledger  domain.SaleLedger
	catalog domain.CatalogStore
	logger  *log.Entry
	metrics *metrics.SalesMetrics
}

// NewAggregator создаёт рабочий экземпляр агрегатора.
func NewAggregator(ledger domain.SaleLedger, catalog domain.CatalogStore, logger *log.Entry) *Aggregator {
	if logger == nil {
		logger = log.New().WithField("component", "analytics")
	}
	return &Aggregator{
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
		metrics: metrics.NewSalesMetrics(),
	}
}

// NewAggregatorWithoutMetrics создаёт агрегатор без метрик (для тестов).
func NewAggregatorWithoutMetrics(ledger domain.SaleLedger, catalog domain.CatalogStore, logger *log.Entry) *Aggregator {
	agg := NewAggregator(ledger, catalog, logger)
	agg.metrics = nil
	return agg
}

// Analyze строит сводку за календарный период. Обе границы обязательны;
// конечная дата включается целиком, до последнего мгновения суток.
// Пустой период — не ошибка: возвращаются нулевые счётчики и пустые списки.
func (a *Aggregator) Analyze(start, end time.Time) (PeriodSummary, error) {
	began := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordAnalyticsRun(time.Since(began))
		}
	}()

	if start.IsZero() || end.IsZero() {
		return PeriodSummary{}, domain.ErrInvalidRange
	}

	from := startOfDay(start)
	to := endOfDay(end)

	sales, err := a.ledger.List(domain.SaleFilter{From: from, To: to})
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("list sales for period: %w", err)
	}

	summary := PeriodSummary{
		Start:             from,
		End:               to,
		GrossRevenue:      decimal.Zero,
		AverageTicket:     decimal.Zero,
		TopProducts:       []ProductSummary{},
		CategoryBreakdown: []CategorySummary{},
	}

	products := make(map[string]*ProductSummary)
	categories := make(map[string]*CategorySummary)
	// Порядок первого появления: при равенстве сортировочного ключа
	// позиции сохраняют его (stable sort).
	var productOrder []string
	var categoryOrder []string

	for _, sale := range sales {
		if sale.Status == domain.SaleStatusCancelled {
			continue
		}

		summary.SalesCount++
		summary.GrossRevenue = summary.GrossRevenue.Add(sale.Total)

		for _, item := range sale.Items {
			summary.UnitsSold += item.Quantity

			name, category := a.resolveProduct(item.ProductID)

			acc, ok := products[item.ProductID]
			if !ok {
				acc = &ProductSummary{
					ProductID: item.ProductID,
					Name:      name,
					Category:  category,
					Revenue:   decimal.Zero,
				}
				products[item.ProductID] = acc
				productOrder = append(productOrder, item.ProductID)
			}
			acc.QuantitySold += item.Quantity
			acc.Revenue = acc.Revenue.Add(item.Subtotal)

			catAcc, ok := categories[category]
			if !ok {
				catAcc = &CategorySummary{Category: category, Revenue: decimal.Zero}
				categories[category] = catAcc
				categoryOrder = append(categoryOrder, category)
			}
			catAcc.QuantitySold += item.Quantity
			catAcc.Revenue = catAcc.Revenue.Add(item.Subtotal)
		}
	}

	if summary.SalesCount > 0 {
		summary.AverageTicket = summary.GrossRevenue.Div(decimal.NewFromInt(int64(summary.SalesCount)))
	}

	topProducts := make([]ProductSummary, 0, len(productOrder))
	for _, id := range productOrder {
		topProducts = append(topProducts, *products[id])
	}
	sort.SliceStable(topProducts, func(i, j int) bool {
		return topProducts[i].QuantitySold > topProducts[j].QuantitySold
	})
	if len(topProducts) > topProductsLimit {
		topProducts = topProducts[:topProductsLimit]
	}
	summary.TopProducts = topProducts

	breakdown := make([]CategorySummary, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		breakdown = append(breakdown, *categories[category])
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Revenue.GreaterThan(breakdown[j].Revenue)
	})
	summary.CategoryBreakdown = breakdown

	a.logger.WithFields(log.Fields{
		"from":        from.Format(time.RFC3339),
		"to":          to.Format(time.RFC3339),
		"sales_count": summary.SalesCount,
	}).Debug("period analytics computed")

	return summary, nil
}

// resolveProduct возвращает имя и категорию товара из каталога. Товар,
// удалённый после продажи, остаётся в сводке под своим ID без имени.
func (a *Aggregator) resolveProduct(productID string) (name, category string) {
	product, err := a.catalog.GetProduct(productID)
	if err != nil {
		if !domain.IsNotFound(err) {
			a.logger.WithError(err).WithField("product_id", productID).Warn("product lookup failed during aggregation")
		}
		return "", domain.CategoryUncategorized
	}
	return product.Name, product.CategoryOrDefault()
}

// startOfDay возвращает первое мгновение календарных суток.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// endOfDay возвращает последнее мгновение календарных суток.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
