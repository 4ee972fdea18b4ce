package kafka

import "time"

// EventType определяет тип события жизненного цикла продажи.
type EventType string

const (
	EventTypeSaleCreated       EventType = "sale.created"
	EventTypeSaleCancelled     EventType = "sale.cancelled"
	EventTypeSaleStatusChanged EventType = "sale.status_changed"
)

// Topics для Kafka
const (
	TopicSaleEvents = "sales.sale.events"
)

// SaleEvent представляет событие жизненного цикла продажи.
type SaleEvent struct {
	EventType  EventType              `json:"event_type"`
	SaleID     string                 `json:"sale_id"`
	CustomerID string                 `json:"customer_id"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewSaleEvent создает новое событие продажи.
func NewSaleEvent(eventType EventType, saleID, customerID, status string, metadata map[string]interface{}) *SaleEvent {
	return &SaleEvent{
		EventType:  eventType,
		SaleID:     saleID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}
