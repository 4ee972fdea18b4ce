package rest

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/service/analytics"
	"github.com/andreimorozov/sales/internal/service/order"
)

// NewRouter собирает HTTP-роутер сервиса: группа /api с маршрутами продаж
// и аналитики.
func NewRouter(
	engine *order.Engine,
	aggregator *analytics.Aggregator,
	ledger domain.SaleLedger,
	logger *log.Entry,
) *gin.Engine {
	if logger == nil {
		logger = log.New().WithField("component", "rest")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	NewSaleController(engine, ledger, logger.WithField("controller", "sales")).RegisterRoutes(api)
	NewAnalyticsController(aggregator, logger.WithField("controller", "analytics")).RegisterRoutes(api)

	return router
}
