package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrSaleNotFound возвращается, если продажа не найдена в леджере.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrSaleAlreadyExists возвращается при попытке создать продажу с занятым ID.
	ErrSaleAlreadyExists = errors.New("sale already exists")
	// ErrInsufficientStock — остатка товара не хватает на запрошенное количество.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrSaleAlreadyCancelled — повторная отмена уже отменённой продажи.
	ErrSaleAlreadyCancelled = errors.New("sale already cancelled")
	// ErrEmptyOrder — продажа без единой позиции.
	ErrEmptyOrder = errors.New("sale must contain at least one item")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка при некорректном количестве товара (< 1).
	ErrQuantityInvalid = errors.New("item quantity must be at least one")
	// Ошибка, если цена позиции отрицательная.
	ErrPriceNegative = errors.New("item price must be non-negative")
	// Ошибка несоответствия subtotal позиции произведению qty * unit price.
	ErrSubtotalMismatch = errors.New("line subtotal does not match qty * unit price")
	// Ошибка несоответствия итога продажи и сумм позиций.
	ErrTotalMismatch = errors.New("sale total does not match items sum")
	// Ошибка неизвестного значения статуса.
	ErrStatusInvalid = errors.New("unknown sale status")
	// Ошибка перехода из терминального статуса cancelled.
	ErrStatusTerminal = errors.New("cancelled sale status is terminal")
	// ErrCancelViaSetStatus — cancelled достижим только через операцию cancel.
	ErrCancelViaSetStatus = errors.New("use cancel operation to cancel a sale")
	// Ошибка неизвестного способа оплаты.
	ErrPaymentMethodInvalid = errors.New("unknown payment method")
	// ErrInvalidRange — у аналитического запроса не задана одна из границ периода.
	ErrInvalidRange = errors.New("period start and end are required")
)

// ProductNotFoundError уточняет ErrProductNotFound идентификатором товара,
// чтобы каталог из нескольких позиций мог назвать виновную.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Is связывает типизированную ошибку с сентинелом ErrProductNotFound.
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InsufficientStockError уточняет ErrInsufficientStock запрошенным и доступным
// количеством.
type InsufficientStockError struct {
	ProductID string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is связывает типизированную ошибку с сентинелом ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsNotFound проверяет, является ли ошибка отсутствием клиента, товара или продажи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrSaleNotFound)
}
