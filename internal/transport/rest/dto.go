package rest

import (
	"time"

	"github.com/andreimorozov/sales/internal/domain"
	"github.com/andreimorozov/sales/internal/service/analytics"
)

// createSaleRequest — тело POST /api/sales.
type createSaleRequest struct {
	CustomerID    string           `json:"customer_id"`
	Items         []createSaleItem `json:"items"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
}

type createSaleItem struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// setStatusRequest — тело PATCH /api/sales/:sale_id/status.
type setStatusRequest struct {
	Status string `json:"status"`
}

// saleItemResponse отражает одну позицию продажи в JSON-ответе.
// Денежные поля сериализуются строками, чтобы не терять точность.
type saleItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type saleResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id"`
	Items         []saleItemResponse `json:"items"`
	Total         string             `json:"total"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func newSaleResponse(sale domain.Sale) saleResponse {
	items := make([]saleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, saleItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}
	return saleResponse{
		ID:            sale.ID,
		CustomerID:    sale.CustomerID,
		Items:         items,
		Total:         sale.Total.StringFixed(2),
		Status:        string(sale.Status),
		PaymentMethod: string(sale.PaymentMethod),
		Notes:         sale.Notes,
		CreatedAt:     sale.CreatedAt,
		UpdatedAt:     sale.UpdatedAt,
	}
}

func newSaleListResponse(sales []domain.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, newSaleResponse(sale))
	}
	return out
}

type productSummaryResponse struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	QuantitySold int32  `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

type categorySummaryResponse struct {
	Category     string `json:"category"`
	QuantitySold int32  `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

type periodSummaryResponse struct {
	Start             string                    `json:"start"`
	End               string                    `json:"end"`
	SalesCount        int                       `json:"sales_count"`
	GrossRevenue      string                    `json:"gross_revenue"`
	AverageTicket     string                    `json:"average_ticket"`
	UnitsSold         int32                     `json:"units_sold"`
	TopProducts       []productSummaryResponse  `json:"top_products"`
	CategoryBreakdown []categorySummaryResponse `json:"category_breakdown"`
}

func newPeriodSummaryResponse(summary analytics.PeriodSummary) periodSummaryResponse {
	top := make([]productSummaryResponse, 0, len(summary.TopProducts))
	for _, p := range summary.TopProducts {
		top = append(top, productSummaryResponse{
			ProductID:    p.ProductID,
			Name:         p.Name,
			Category:     p.Category,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue.StringFixed(2),
		})
	}
	categories := make([]categorySummaryResponse, 0, len(summary.CategoryBreakdown))
	for _, c := range summary.CategoryBreakdown {
		categories = append(categories, categorySummaryResponse{
			Category:     c.Category,
			QuantitySold: c.QuantitySold,
			Revenue:      c.Revenue.StringFixed(2),
		})
	}
	return periodSummaryResponse{
		Start:             summary.Start.Format(dateLayout),
		End:               summary.End.Format(dateLayout),
		SalesCount:        summary.SalesCount,
		GrossRevenue:      summary.GrossRevenue.StringFixed(2),
		AverageTicket:     summary.AverageTicket.StringFixed(2),
		UnitsSold:         summary.UnitsSold,
		TopProducts:       top,
		CategoryBreakdown: categories,
	}
}
