package memory

import (
	"sync"
	"time"

	"github.com/andreimorozov/sales/internal/domain"
)

// catalogStoreInMemory — простая in-memory реализация CatalogStore.
type catalogStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewCatalogStore возвращает in-memory каталог для локальной разработки и тестов.
func NewCatalogStore() domain.CatalogStore {
	return &catalogStoreInMemory{
		items: make(map[string]domain.Product),
	}
}

// NewCatalogStoreSeeded возвращает каталог, предзаполненный товарами.
func NewCatalogStoreSeeded(products []domain.Product) domain.CatalogStore {
	store := &catalogStoreInMemory{
		items: make(map[string]domain.Product, len(products)),
	}
	for _, p := range products {
		store.items[p.ID] = p
	}
	return store
}

// GetProduct возвращает товар или ErrProductNotFound, если его нет.
func (s *catalogStoreInMemory) GetProduct(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.items[id]
	if !ok {
		return domain.Product{}, &domain.ProductNotFoundError{ProductID: id}
	}
	return product, nil
}

// SaveProduct перезаписывает товар. Сток не может стать отрицательным.
func (s *catalogStoreInMemory) SaveProduct(product domain.Product) error {
	if product.Stock < 0 {
		return domain.ErrInsufficientStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.UpdatedAt = time.Now().UTC()
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.items[product.ID] = product
	return nil
}

// Delete удаляет товар из каталога. Нужен тестам сценария best-effort возврата
// стока, когда товар исчез между продажей и отменой.
func (s *catalogStoreInMemory) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

var _ domain.CatalogStore = (*catalogStoreInMemory)(nil)
