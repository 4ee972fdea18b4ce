package domain

import "time"

// CatalogStore описывает взаимодействие с внешним каталогом товаров.
type CatalogStore interface {
	// GetProduct возвращает товар или ErrProductNotFound, если его нет.
	GetProduct(id string) (Product, error)
	// SaveProduct перезаписывает товар (списание и возврат стока).
	SaveProduct(product Product) error
}

// CustomerStore описывает взаимодействие с внешним реестром клиентов.
type CustomerStore interface {
	// GetCustomer возвращает клиента или ErrCustomerNotFound, если его нет.
	GetCustomer(id string) (Customer, error)
}

// SaleLedger описывает требования к хранилищу продаж. Записи неизменяемы
// после создания, меняется только статус.
type SaleLedger interface {
	// Create сохраняет новую продажу вместе с позициями.
	Create(sale Sale) error
	// Get возвращает продажу по идентификатору или ErrSaleNotFound, если её нет.
	Get(id string) (Sale, error)
	// List возвращает продажи, прошедшие фильтр, отсортированные по времени создания.
	List(filter SaleFilter) ([]Sale, error)
	// UpdateStatus меняет статус продажи и отметку времени обновления.
	UpdateStatus(id string, status SaleStatus) (Sale, error)
}

// SaleFilter задаёт критерии выборки продаж. Нулевые значения полей
// означают отсутствие ограничения.
type SaleFilter struct {
	CustomerID string
	Status     SaleStatus
	From       time.Time
	To         time.Time
}

// Matches сообщает, проходит ли продажа фильтр.
func (f SaleFilter) Matches(sale Sale) bool {
	if f.CustomerID != "" && sale.CustomerID != f.CustomerID {
		return false
	}
	if f.Status != "" && sale.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && sale.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && sale.CreatedAt.After(f.To) {
		return false
	}
	return true
}
