package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderStatusRepository interface {
	UpdateStatusIfCurrent(ctx context.Context, tx *sql.Tx, id, expectedStatus, newStatus, paymentStatus string) error
}

type StockReleaser interface {
	Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

// TransitionCommitter persists a resolved status transition as one atomic
// unit: the optimistic status update plus, when the resolution is a
// cancellation, the stock restoration for every line. Only the transaction
// that wins the status compare-and-swap restores stock, so each line is
// released at most once across the order's lifetime.
type TransitionCommitter struct {
	db        TransactionManager
	orderRepo OrderStatusRepository
	ledger    StockReleaser
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewTransitionCommitter(
	db TransactionManager,
	orderRepo OrderStatusRepository,
	ledger StockReleaser,
	logger *zap.Logger,
	txTimeout time.Duration,
) *TransitionCommitter {
	return &TransitionCommitter{
		db:        db,
		orderRepo: orderRepo,
		ledger:    ledger,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (c *TransitionCommitter) Commit(ctx context.Context, order *domain.Order, newStatus string) error {
	txCtx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		c.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// Rollback on any exit path. MySQL ignores rollback after commit.
	defer tx.Rollback()

	paymentStatus := order.PaymentStatus
	if newStatus == domain.OrderStatusDelivered {
		paymentStatus = domain.PaymentStatusPaid
	}

	err = c.orderRepo.UpdateStatusIfCurrent(txCtx, tx, order.ID, order.Status, newStatus, paymentStatus)
	if err != nil {
		return err
	}

	if newStatus == domain.OrderStatusCancelled {
		for _, line := range order.Lines {
			if err := c.ledger.Release(txCtx, tx, line.ProductID, line.Quantity); err != nil {
				c.logger.Error("failed to restore stock",
					zap.String("orderId", order.ID),
					zap.String("productId", line.ProductID),
					zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		c.logger.Error("failed to commit transition", zap.String("orderId", order.ID), zap.Error(err))
		return err
	}

	c.logger.Info("transition committed",
		zap.String("orderId", order.ID),
		zap.String("from", order.Status),
		zap.String("to", newStatus))
	return nil
}
