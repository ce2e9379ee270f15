package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

func (r *MySQLCartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `
		SELECT id, userId, productId, quantity, createdAt
		FROM cart_items
		WHERE userId = ?
		ORDER BY createdAt
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning cart item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart item rows: %w", err)
	}

	return items, nil
}

// Upsert adds the product to the user's cart, accumulating quantity when
// the product is already there.
func (r *MySQLCartRepository) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_items (id, userId, productId, quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}

	return nil
}

func (r *MySQLCartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `UPDATE cart_items SET quantity = ? WHERE userId = ? AND productId = ?`

	result, err := r.db.ExecContext(ctx, query, quantity, userID, productID)
	if err != nil {
		return fmt.Errorf("updating cart item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cart item for product %s not found", productID))
	}

	return nil
}

func (r *MySQLCartRepository) Delete(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM cart_items WHERE userId = ? AND productId = ?`

	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cart item for product %s not found", productID))
	}

	return nil
}

// DeleteByUser clears the whole cart inside the caller's transaction so the
// cart empties atomically with order creation.
func (r *MySQLCartRepository) DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error {
	query := `DELETE FROM cart_items WHERE userId = ?`

	_, err := tx.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}

	return nil
}
