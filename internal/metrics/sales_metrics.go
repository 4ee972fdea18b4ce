package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics содержит метрики движка продаж и аналитики.
type SalesMetrics struct {
	// Счётчики операций
	salesCreated   prometheus.Counter
	salesCancelled prometheus.Counter
	salesFailed    prometheus.Counter

	// Отказы по нехватке стока
	stockRejections prometheus.Counter

	// Продажи в единицах товара
	unitsSold prometheus.Counter

	// Гистограммы времени выполнения
	createDuration  prometheus.Histogram
	analyzeDuration prometheus.Histogram

	// Счётчик аналитических запросов
	analyticsRuns prometheus.Counter

	// Счётчик опубликованных событий
	eventsPublished prometheus.Counter
}

// NewSalesMetrics создаёт новый экземпляр метрик продаж.
func NewSalesMetrics() *SalesMetrics {
	return newSalesMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSalesMetricsWithRegisterer(registerer prometheus.Registerer) *SalesMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SalesMetrics{
		salesCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "Total number of sales committed successfully",
		}),
		salesCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_cancelled_total",
			Help: "Total number of sales cancelled",
		}),
		salesFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_failed_total",
			Help: "Total number of sale creations rejected or failed",
		}),
		stockRejections: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_rejections_total",
			Help: "Total number of sale items rejected due to insufficient stock",
		}),
		unitsSold: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_units_sold_total",
			Help: "Total number of product units debited by committed sales",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "sales_create_duration_seconds",
			Help:    "Duration of sale creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		analyzeDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "sales_analyze_duration_seconds",
			Help:    "Duration of period analytics runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		analyticsRuns: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_analytics_runs_total",
			Help: "Total number of period analytics requests served",
		}),
		eventsPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_events_published_total",
			Help: "Total number of sale lifecycle events published",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordSaleCreated увеличивает счётчик успешных продаж и проданных единиц.
func (m *SalesMetrics) RecordSaleCreated(units int32) {
	m.salesCreated.Inc()
	m.unitsSold.Add(float64(units))
}

// RecordSaleCancelled увеличивает счётчик отменённых продаж.
func (m *SalesMetrics) RecordSaleCancelled() {
	m.salesCancelled.Inc()
}

// RecordSaleFailed увеличивает счётчик отклонённых продаж.
func (m *SalesMetrics) RecordSaleFailed() {
	m.salesFailed.Inc()
}

// RecordStockRejection увеличивает счётчик отказов по нехватке стока.
func (m *SalesMetrics) RecordStockRejection() {
	m.stockRejections.Inc()
}

// RecordCreateDuration записывает время создания продажи.
func (m *SalesMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordAnalyticsRun увеличивает счётчик аналитических запросов и записывает длительность.
func (m *SalesMetrics) RecordAnalyticsRun(duration time.Duration) {
	m.analyticsRuns.Inc()
	m.analyzeDuration.Observe(duration.Seconds())
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *SalesMetrics) RecordEventPublished() {
	m.eventsPublished.Inc()
}
