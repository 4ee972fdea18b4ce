package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/service/order"
)

// SaleController — тонкий HTTP-слой над движком продаж. Вся бизнес-логика
// живёт в движке, контроллер только разбирает запросы и подбирает коды ответа.
type SaleController struct {
	engine *order.Engine
	ledger domain.SaleLedger
	logger *log.Entry
}

// NewSaleController создаёт контроллер продаж.
func NewSaleController(engine *order.Engine, ledger domain.SaleLedger, logger *log.Entry) *SaleController {
	if logger == nil {
		logger = log.New().WithField("component", "rest-sales")
	}
	return &SaleController{engine: engine, ledger: ledger, logger: logger}
}

// RegisterRoutes регистрирует маршруты продаж в группе.
func (c *SaleController) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.POST("", c.CreateSale)
		sales.GET("", c.ListSales)
		sales.GET("/:sale_id", c.GetSale)
		sales.PATCH("/:sale_id/status", c.SetStatus)
		sales.POST("/:sale_id/cancel", c.CancelSale)
	}
}

// CreateSale обрабатывает POST /api/sales.
func (c *SaleController) CreateSale(ctx *gin.Context) {
	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := make([]order.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	sale, err := c.engine.Create(order.CreateRequest{
		CustomerID:    req.CustomerID,
		Items:         items,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		c.logger.WithError(err).Warn("sale creation rejected")
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newSaleResponse(sale))
}

// GetSale обрабатывает GET /api/sales/:sale_id.
func (c *SaleController) GetSale(ctx *gin.Context) {
	sale, err := c.ledger.Get(ctx.Param("sale_id"))
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSaleResponse(sale))
}

// ListSales обрабатывает GET /api/sales с фильтрами customer и status.
func (c *SaleController) ListSales(ctx *gin.Context) {
	filter := domain.SaleFilter{CustomerID: ctx.Query("customer")}

	if raw := ctx.Query("status"); raw != "" {
		status := domain.SaleStatus(raw)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + raw})
			return
		}
		filter.Status = status
	}

	sales, err := c.ledger.List(filter)
	if err != nil {
		c.logger.WithError(err).Error("failed to list sales")
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"sales": newSaleListResponse(sales),
		"count": len(sales),
	})
}

// SetStatus обрабатывает PATCH /api/sales/:sale_id/status.
func (c *SaleController) SetStatus(ctx *gin.Context) {
	var req setStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := c.engine.SetStatus(ctx.Param("sale_id"), domain.SaleStatus(req.Status))
	if err != nil {
		c.logger.WithError(err).Warn("status change rejected")
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newSaleResponse(sale))
}

// CancelSale обрабатывает POST /api/sales/:sale_id/cancel.
func (c *SaleController) CancelSale(ctx *gin.Context) {
	sale, err := c.engine.Cancel(ctx.Param("sale_id"))
	if err != nil {
		c.logger.WithError(err).Warn("cancellation rejected")
		writeDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSaleResponse(sale))
}
