package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreimorozov/sales/internal/domain"
)

const opTimeout = 5 * time.Second

// pgErrCheckViolation — код нарушения CHECK-ограничения (стока в минус).
const pgErrCheckViolation = "23514"

type catalogStore struct {
	db *sql.DB
}

// NewCatalogStore создаёт PostgreSQL-реализацию CatalogStore.
func NewCatalogStore(store *Store) domain.CatalogStore {
	return &catalogStore{db: store.DB()}
}

func (s *catalogStore) GetProduct(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, stock, category, image_url, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.ProductNotFoundError{ProductID: id}
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return p, nil
}

func (s *catalogStore) SaveProduct(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, stock, category, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			active = EXCLUDED.active,
			updated_at = NOW()
	`,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.Category, product.ImageURL, product.Active, product.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			// CHECK (stock >= 0): база — последний рубеж против ухода стока в минус.
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCheckViolation
}

var _ domain.CatalogStore = (*catalogStore)(nil)
