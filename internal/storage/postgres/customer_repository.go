package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andreimorozov/sales/internal/domain"
)

type customerStore struct {
	db *sql.DB
}

// NewCustomerStore создаёт PostgreSQL-реализацию CustomerStore.
func NewCustomerStore(store *Store) domain.CustomerStore {
	return &customerStore{db: store.DB()}
}

func (s *customerStore) GetCustomer(id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, document, phone, address
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Document, &c.Phone, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return c, nil
}

var _ domain.CustomerStore = (*customerStore)(nil)
