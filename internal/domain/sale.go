package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus описывает жизненный цикл продажи в бэк-офисе.
type SaleStatus string

const (
	// SaleStatusPending — продажа создана, сток уже списан, обработка не началась.
	SaleStatusPending SaleStatus = "pending"
	// SaleStatusProcessing — продажа взята в обработку.
	SaleStatusProcessing SaleStatus = "processing"
	// SaleStatusShipped — заказ передан в доставку.
	SaleStatusShipped SaleStatus = "shipped"
	// SaleStatusDelivered — заказ доставлен клиенту.
	SaleStatusDelivered SaleStatus = "delivered"
	// SaleStatusCancelled — продажа отменена, сток возвращён. Терминальный статус.
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Valid сообщает, входит ли значение в закрытый набор статусов.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusProcessing, SaleStatusShipped,
		SaleStatusDelivered, SaleStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod задаёт способ оплаты продажи.
type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodInvoice PaymentMethod = "invoice"
	PaymentMethodPix     PaymentMethod = "pix"
	PaymentMethodCash    PaymentMethod = "cash"

	// DefaultPaymentMethod используется, когда способ оплаты не указан в запросе.
	DefaultPaymentMethod = PaymentMethodCash
)

// Valid сообщает, входит ли значение в закрытый набор способов оплаты.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodInvoice, PaymentMethodPix, PaymentMethodCash:
		return true
	}
	return false
}

// LineItem представляет одну позицию продажи.
type LineItem struct {
	// ProductID — ссылка на товар каталога.
	ProductID string
	// Quantity — количество единиц, минимум 1.
	Quantity int32
	// UnitPrice — цена за единицу, зафиксированная в момент продажи.
	// Последующие изменения цены в каталоге на позицию не влияют.
	UnitPrice decimal.Decimal
	// Subtotal = Quantity * UnitPrice, вычисляется один раз при создании.
	Subtotal decimal.Decimal
}

// Sale агрегирует позиции продажи и её итог. После создания изменяется
// только статус (и отметка времени обновления).
type Sale struct {
	ID            string
	CustomerID    string
	Items         []LineItem
	Total         decimal.Decimal
	Status        SaleStatus
	PaymentMethod PaymentMethod
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateInvariants проверяет базовые инварианты продажи и возвращает список замечаний.
func (s *Sale) ValidateInvariants() []error {
	var errs []error

	if s.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(s.Items) == 0 {
		errs = append(errs, ErrEmptyOrder)
	}
	if !s.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}
	if !s.PaymentMethod.Valid() {
		errs = append(errs, ErrPaymentMethodInvalid)
	}

	// Сверяем итог продажи с суммой позиций: qty * unit price.
	calc := decimal.Zero
	for _, item := range s.Items {
		if item.Quantity < 1 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrPriceNegative)
		}
		if !item.Subtotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))) {
			errs = append(errs, ErrSubtotalMismatch)
		}
		calc = calc.Add(item.Subtotal)
	}
	if !calc.Equal(s.Total) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
