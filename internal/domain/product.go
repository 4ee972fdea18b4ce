package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryUncategorized — категория по умолчанию для товаров без категории.
// Используется аналитикой при группировке.
const CategoryUncategorized = "Uncategorized"

// Product описывает товар каталога. Каталог ведётся внешним сервисом;
// ядро читает товар и изменяет только Stock (списание и возврат).
type Product struct {
	ID          string
	Name        string
	Description string
	// Price — цена за единицу, неотрицательная.
	Price decimal.Decimal
	// Stock — доступный остаток. Инвариант: никогда не уходит в минус.
	Stock    int32
	Category string
	ImageURL string
	Active   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryOrDefault возвращает категорию товара либо CategoryUncategorized.
func (p *Product) CategoryOrDefault() string {
	if p.Category == "" {
		return CategoryUncategorized
	}
	return p.Category
}
