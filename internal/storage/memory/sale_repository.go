package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/andreimorozov/sales/internal/domain"
)

// saleLedgerInMemory — простая in-memory реализация SaleLedger.
type saleLedgerInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Sale
}

// NewSaleLedger возвращает in-memory леджер продаж для локальной разработки и тестов.
func NewSaleLedger() domain.SaleLedger {
	return &saleLedgerInMemory{
		items: make(map[string]domain.Sale),
	}
}

// Create сохраняет новую продажу, если ID ещё не занят.
func (r *saleLedgerInMemory) Create(sale domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[sale.ID]; exists {
		return domain.ErrSaleAlreadyExists
	}
	// Сохраняем копию позиций, чтобы избежать непредсказуемых мутаций извне.
	sale.Items = append([]domain.LineItem(nil), sale.Items...)
	r.items[sale.ID] = sale
	return nil
}

// Get возвращает продажу или ErrSaleNotFound, если её нет.
func (r *saleLedgerInMemory) Get(id string) (domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sale, ok := r.items[id]
	if !ok {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	sale.Items = append([]domain.LineItem(nil), sale.Items...)
	return sale, nil
}

// List возвращает продажи, прошедшие фильтр, от старых к новым.
func (r *saleLedgerInMemory) List(filter domain.SaleFilter) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Sale, 0, len(r.items))
	for _, sale := range r.items {
		if !filter.Matches(sale) {
			continue
		}
		sale.Items = append([]domain.LineItem(nil), sale.Items...)
		result = append(result, sale)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateStatus меняет статус продажи, не трогая позиции и итог.
func (r *saleLedgerInMemory) UpdateStatus(id string, status domain.SaleStatus) (domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale, ok := r.items[id]
	if !ok {
		return domain.Sale{}, domain.ErrSaleNotFound
	}

	sale.Status = status
	sale.UpdatedAt = time.Now().UTC()
	r.items[id] = sale

	sale.Items = append([]domain.LineItem(nil), sale.Items...)
	return sale, nil
}

var _ domain.SaleLedger = (*saleLedgerInMemory)(nil)
