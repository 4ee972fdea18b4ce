package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/service/analytics"
)

// dateLayout — формат дат периода в query-параметрах и ответах.
const dateLayout = "2006-01-02"

// AnalyticsController отдаёт сводку продаж за период.
type AnalyticsController struct {
	aggregator *analytics.Aggregator
	logger     *log.Entry
}

// NewAnalyticsController создаёт контроллер аналитики.
func NewAnalyticsController(aggregator *analytics.Aggregator, logger *log.Entry) *AnalyticsController {
	if logger == nil {
		logger = log.New().WithField("component", "rest-analytics")
	}
	return &AnalyticsController{aggregator: aggregator, logger: logger}
}

// RegisterRoutes регистрирует маршруты аналитики в группе.
func (c *AnalyticsController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sales/analytics/period", c.PeriodReport)
}

// PeriodReport обрабатывает GET /api/sales/analytics/period?start=&end=.
// Обе даты обязательны, формат YYYY-MM-DD, конец периода включителен.
func (c *AnalyticsController) PeriodReport(ctx *gin.Context) {
	start, err := parseDateParam(ctx.Query("start"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "start: expected YYYY-MM-DD"})
		return
	}
	end, err := parseDateParam(ctx.Query("end"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "end: expected YYYY-MM-DD"})
		return
	}

	summary, err := c.aggregator.Analyze(start, end)
	if err != nil {
		c.logger.WithError(err).Warn("period report rejected")
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newPeriodSummaryResponse(summary))
}

func parseDateParam(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}
