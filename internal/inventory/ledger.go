package inventory

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
)

type StockRepository interface {
	AvailableQuantity(ctx context.Context, productID string) (int, error)
	Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
	Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

// Ledger owns per-product available quantity. All mutations run inside the
// caller's transaction so stock changes commit atomically with the order
// state they belong to.
type Ledger struct {
	repo   StockRepository
	logger *zap.Logger
}

func NewLedger(repo StockRepository, logger *zap.Logger) *Ledger {
	return &Ledger{repo: repo, logger: logger}
}

func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	if err := l.repo.Reserve(ctx, tx, productID, quantity); err != nil {
		return err
	}
	l.logger.Info("stock reserved",
		zap.String("productId", productID),
		zap.Int("quantity", quantity))
	return nil
}

func (l *Ledger) Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	if err := l.repo.Release(ctx, tx, productID, quantity); err != nil {
		return err
	}
	l.logger.Info("stock released",
		zap.String("productId", productID),
		zap.Int("quantity", quantity))
	return nil
}

// CheckAvailability reports whether every line's quantity is covered by the
// product's current available stock. Lock-free snapshot read; the result
// feeds the confirmation task's stockAvailable variable.
func (l *Ledger) CheckAvailability(ctx context.Context, lines []domain.OrderLine) (bool, error) {
	for _, line := range lines {
		available, err := l.repo.AvailableQuantity(ctx, line.ProductID)
		if err != nil {
			return false, err
		}
		if available < line.Quantity {
			return false, nil
		}
	}
	return true, nil
}
