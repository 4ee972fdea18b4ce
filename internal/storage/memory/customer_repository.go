package memory

import (
	"sync"

	"github.com/andreimorozov/sales/internal/domain"
)

// customerStoreInMemory — простая in-memory реализация CustomerStore.
type customerStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerStore возвращает in-memory реестр клиентов для локальной разработки и тестов.
func NewCustomerStore() *customerStoreInMemory {
	return &customerStoreInMemory{
		items: make(map[string]domain.Customer),
	}
}

// GetCustomer возвращает клиента или ErrCustomerNotFound, если его нет.
func (s *customerStoreInMemory) GetCustomer(id string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// Put добавляет клиента. Реестр ведётся внешним сервисом, поэтому метод
// не входит в доменный порт и нужен только для наполнения в тестах и dev-режиме.
func (s *customerStoreInMemory) Put(customer domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[customer.ID] = customer
}

var _ domain.CustomerStore = (*customerStoreInMemory)(nil)
