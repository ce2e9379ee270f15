package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, userId, orderDate, totalAmount, status, paymentStatus
		FROM orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.OrderDate,
		&order.TotalAmount, &order.Status, &order.PaymentStatus,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	lines, err := r.findLines(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]

	return &order, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, userId, orderDate, totalAmount, status, paymentStatus
		FROM orders
		ORDER BY orderDate DESC
	`
	return r.queryOrders(ctx, query)
}

func (r *MySQLOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, userId, orderDate, totalAmount, status, paymentStatus
		FROM orders
		WHERE userId = ?
		ORDER BY orderDate DESC
	`
	return r.queryOrders(ctx, query, userID)
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.UserID, &order.OrderDate,
			&order.TotalAmount, &order.Status, &order.PaymentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}

	return orders, nil
}

func (r *MySQLOrderRepository) findLines(ctx context.Context, orderIDs []string) (map[string][]domain.OrderLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, 0, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, orderId, productId, quantity, price, originalPrice, discount
		FROM order_lines
		WHERE orderId IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.OrderLine)
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID,
			&line.Quantity, &line.Price, &line.OriginalPrice, &line.Discount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		lines[line.OrderID] = append(lines[line.OrderID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}

	return lines, nil
}

// Insert persists the order and its lines inside the caller's transaction.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, userId, orderDate, totalAmount, status, paymentStatus)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		order.ID, order.UserID, order.OrderDate,
		order.TotalAmount, order.Status, order.PaymentStatus,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (id, orderId, productId, quantity, price, originalPrice, discount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, line := range order.Lines {
		_, err := tx.ExecContext(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID,
			line.Quantity, line.Price, line.OriginalPrice, line.Discount,
		)
		if err != nil {
			return fmt.Errorf("inserting order line: %w", err)
		}
	}

	return nil
}

// UpdateStatusIfCurrent is the store's optimistic check: the UPDATE only
// applies while the persisted status still equals expectedStatus. A
// concurrent transition that got there first surfaces as
// ConcurrentModification and the caller re-reads and retries.
func (r *MySQLOrderRepository) UpdateStatusIfCurrent(ctx context.Context, tx *sql.Tx, id, expectedStatus, newStatus, paymentStatus string) error {
	query := `UPDATE orders SET status = ?, paymentStatus = ? WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, newStatus, paymentStatus, id, expectedStatus)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
		if err != nil {
			return fmt.Errorf("querying order status: %w", err)
		}
		return errors.NewConcurrentModificationError(fmt.Sprintf(
			"order %s status is %s, expected %s", id, current, expectedStatus))
	}

	return nil
}
