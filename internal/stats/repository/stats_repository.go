package repository

import (
	"context"
	"database/sql"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type MySQLStatsRepository struct {
	db *sql.DB
}

func NewMySQLStatsRepository(db *sql.DB) *MySQLStatsRepository {
	return &MySQLStatsRepository{db: db}
}

// TotalRevenue sums the amounts of delivered orders. Cancelled and in-flight
// orders contribute nothing.
func (r *MySQLStatsRepository) TotalRevenue(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(totalAmount), 0) FROM orders WHERE status = ?`

	var revenue float64
	if err := r.db.QueryRowContext(ctx, query, domain.OrderStatusDelivered).Scan(&revenue); err != nil {
		return 0, apperrors.NewInternalError("querying total revenue", err)
	}
	return revenue, nil
}

func (r *MySQLStatsRepository) TotalOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("querying order count", err)
	}
	return count, nil
}

func (r *MySQLStatsRepository) AverageOrderValue(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(AVG(totalAmount), 0) FROM orders`

	var avg float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&avg); err != nil {
		return 0, apperrors.NewInternalError("querying average order value", err)
	}
	return avg, nil
}

func (r *MySQLStatsRepository) DistinctUserCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT userId) FROM orders`).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("querying distinct user count", err)
	}
	return count, nil
}

type Spender struct {
	UserID string
	Spent  float64
}

// TopSpenders ranks users by the total amount of their delivered orders.
func (r *MySQLStatsRepository) TopSpenders(ctx context.Context, limit int) ([]Spender, error) {
	query := `SELECT userId, SUM(totalAmount) AS spent
		FROM orders
		WHERE status = ?
		GROUP BY userId
		ORDER BY spent DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusDelivered, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("querying top spenders", err)
	}
	defer rows.Close()

	var spenders []Spender
	for rows.Next() {
		var s Spender
		if err := rows.Scan(&s.UserID, &s.Spent); err != nil {
			return nil, apperrors.NewInternalError("scanning top spender", err)
		}
		spenders = append(spenders, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("iterating top spenders", err)
	}

	return spenders, nil
}
