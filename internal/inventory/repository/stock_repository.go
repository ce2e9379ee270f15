package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

// AvailableQuantity is a point-in-time, lock-free read.
func (r *MySQLStockRepository) AvailableQuantity(ctx context.Context, productID string) (int, error) {
	query := `SELECT quantity FROM products WHERE id = ?`

	var quantity int
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product %s not found", productID))
	}
	if err != nil {
		return 0, fmt.Errorf("querying product quantity: %w", err)
	}

	return quantity, nil
}

// Reserve decrements available stock inside the caller's transaction. The
// conditional UPDATE serializes concurrent reservations per product and
// guarantees the quantity never goes negative.
func (r *MySQLStockRepository) Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	query := `UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserving stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var available int
		err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = ?`, productID).Scan(&available)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("product %s not found", productID))
		}
		if err != nil {
			return fmt.Errorf("querying product quantity: %w", err)
		}
		return errors.NewInsufficientStockError(productID, quantity, available)
	}

	return nil
}

// Release increments available stock inside the caller's transaction. It
// never fails on quantity grounds; releasing each line at most once is the
// caller's responsibility.
func (r *MySQLStockRepository) Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	query := `UPDATE products SET quantity = quantity + ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("releasing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product %s not found", productID))
	}

	return nil
}
