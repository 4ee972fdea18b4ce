package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andreimorozov/sales/internal/domain"
)

type saleLedger struct {
	db *sql.DB
}

// NewSaleLedger создаёт PostgreSQL-реализацию SaleLedger.
func NewSaleLedger(store *Store) domain.SaleLedger {
	return &saleLedger{db: store.DB()}
}

func (r *saleLedger) Create(sale domain.Sale) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, customer_id, total, status, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		sale.ID, sale.CustomerID, sale.Total, string(sale.Status),
		string(sale.PaymentMethod), sale.Notes, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSaleAlreadyExists
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	// Позиции хранятся с порядковым номером: продажа сохраняет порядок запроса.
	for i, item := range sale.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			sale.ID, i, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create sale: %w", err)
	}

	return nil
}

func (r *saleLedger) Get(id string) (domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	sale, err := r.scanSale(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	sale.Items = items

	return sale, nil
}

func (r *saleLedger) List(filter domain.SaleFilter) ([]domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, customer_id, total, status, payment_method, notes, created_at, updated_at
		FROM sales
	`)

	var conditions []string
	var args []interface{}
	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.CustomerID != "" {
		addCondition("customer_id = $%d", filter.CustomerID)
	}
	if filter.Status != "" {
		addCondition("status = $%d", string(filter.Status))
	}
	if !filter.From.IsZero() {
		addCondition("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		addCondition("created_at <= $%d", filter.To)
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY created_at, id")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		var status, paymentMethod string
		if err := rows.Scan(
			&sale.ID, &sale.CustomerID, &sale.Total, &status,
			&paymentMethod, &sale.Notes, &sale.CreatedAt, &sale.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sale.Status = domain.SaleStatus(status)
		sale.PaymentMethod = domain.PaymentMethod(paymentMethod)
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	for i := range sales {
		items, err := r.loadItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}

	return sales, nil
}

func (r *saleLedger) UpdateStatus(id string, status domain.SaleStatus) (domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE sales SET status = $1, updated_at = $2 WHERE id = $3
	`, string(status), time.Now().UTC(), id)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("update sale status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Sale{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Sale{}, domain.ErrSaleNotFound
	}

	sale, err := r.scanSale(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	items, err := r.loadItems(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	sale.Items = items

	return sale, nil
}

func (r *saleLedger) scanSale(ctx context.Context, id string) (domain.Sale, error) {
	var sale domain.Sale
	var status, paymentMethod string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total, status, payment_method, notes, created_at, updated_at
		FROM sales
		WHERE id = $1
	`, id).Scan(
		&sale.ID, &sale.CustomerID, &sale.Total, &status,
		&paymentMethod, &sale.Notes, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, domain.ErrSaleNotFound
		}
		return domain.Sale{}, fmt.Errorf("select sale: %w", err)
	}
	sale.Status = domain.SaleStatus(status)
	sale.PaymentMethod = domain.PaymentMethod(paymentMethod)

	return sale, nil
}

func (r *saleLedger) loadItems(ctx context.Context, saleID string) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price, subtotal
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY position
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("select sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items: %w", err)
	}

	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}

var _ domain.SaleLedger = (*saleLedger)(nil)
