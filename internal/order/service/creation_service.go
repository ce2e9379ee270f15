package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
)

type OrderInserter interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
}

type CartClearer interface {
	DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error
}

type StockReserver interface {
	Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

// CreationService performs the order-creation transaction: stock reserved
// for every line, order and lines inserted, source cart cleared — all in
// one commit. A single insufficient line rolls everything back, so a failed
// creation never mutates stock.
type CreationService struct {
	db        TransactionManager
	orderRepo OrderInserter
	cartRepo  CartClearer
	ledger    StockReserver
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewCreationService(
	db TransactionManager,
	orderRepo OrderInserter,
	cartRepo CartClearer,
	ledger StockReserver,
	logger *zap.Logger,
	txTimeout time.Duration,
) *CreationService {
	return &CreationService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		ledger:    ledger,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// CreateOrder expects lines sorted by product id ascending; locking
// products in a fixed order avoids deadlocks between concurrent creations.
func (s *CreationService) CreateOrder(ctx context.Context, order *domain.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	for _, line := range order.Lines {
		if err := s.ledger.Reserve(txCtx, tx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn("stock reservation failed",
				zap.String("orderId", order.ID),
				zap.String("productId", line.ProductID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
			return err
		}
	}

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("orderId", order.ID), zap.Error(err))
		return err
	}

	if err := s.cartRepo.DeleteByUser(txCtx, tx, order.UserID); err != nil {
		s.logger.Error("failed to clear cart", zap.String("userId", order.UserID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit order creation", zap.String("orderId", order.ID), zap.Error(err))
		return err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("userId", order.UserID),
		zap.Int("lineCount", len(order.Lines)),
		zap.Float64("totalAmount", order.TotalAmount))
	return nil
}
