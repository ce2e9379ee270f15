package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory"
	stockrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory/repository"
	orderrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/testutil"
)

func newCommitter(db *sql.DB) *TransitionCommitter {
	logger := zap.NewNop()
	return NewTransitionCommitter(
		db,
		orderrepo.NewMySQLOrderRepository(db),
		inventory.NewLedger(stockrepo.NewMySQLStockRepository(db), logger),
		logger,
		5*time.Second,
	)
}

// seedReservedOrder inserts a product whose stock is already reduced by the
// order's quantity, plus the order itself in the given status.
func seedReservedOrder(t *testing.T, db *sql.DB, status string, quantity, remainingStock int) (*domain.Order, string) {
	t.Helper()
	productID := uuid.New().String()
	testutil.InsertTestProduct(t, db, productID, "Keyboard-"+productID[:8], 100, remainingStock)

	orderID := uuid.New().String()
	order := &domain.Order{
		ID:            orderID,
		UserID:        uuid.New().String(),
		OrderDate:     time.Now().UTC(),
		TotalAmount:   float64(quantity) * 100,
		Status:        status,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Lines: []domain.OrderLine{
			{ID: uuid.New().String(), OrderID: orderID, ProductID: productID, Quantity: quantity, Price: 100, OriginalPrice: 100},
		},
	}

	repo := orderrepo.NewMySQLOrderRepository(db)
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), tx, order))
	require.NoError(t, tx.Commit())

	return order, productID
}

func TestTransitionCommitter_ForwardTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	order, productID := seedReservedOrder(t, db, domain.OrderStatusAwaitingConfirmation, 3, 7)
	committer := newCommitter(db)

	require.NoError(t, committer.Commit(context.Background(), order, domain.OrderStatusAwaitingPickup))

	found, err := orderrepo.NewMySQLOrderRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingPickup, found.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, found.PaymentStatus)

	// No stock movement on a forward transition.
	assert.Equal(t, 7, productQuantity(t, db, productID))
}

func TestTransitionCommitter_DeliveredMarksPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	order, productID := seedReservedOrder(t, db, domain.OrderStatusAwaitingDelivery, 3, 7)
	committer := newCommitter(db)

	require.NoError(t, committer.Commit(context.Background(), order, domain.OrderStatusDelivered))

	found, err := orderrepo.NewMySQLOrderRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, found.Status)
	assert.Equal(t, domain.PaymentStatusPaid, found.PaymentStatus)
	assert.Equal(t, 7, productQuantity(t, db, productID))
}

func TestTransitionCommitter_CancellationRestoresStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	order, productID := seedReservedOrder(t, db, domain.OrderStatusAwaitingPickup, 3, 7)
	committer := newCommitter(db)

	require.NoError(t, committer.Commit(context.Background(), order, domain.OrderStatusCancelled))

	found, err := orderrepo.NewMySQLOrderRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, found.Status)
	assert.Equal(t, 10, productQuantity(t, db, productID))
}

func TestTransitionCommitter_LoserDoesNotRestoreTwice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	order, productID := seedReservedOrder(t, db, domain.OrderStatusAwaitingPickup, 3, 7)
	committer := newCommitter(db)

	require.NoError(t, committer.Commit(context.Background(), order, domain.OrderStatusCancelled))

	// A second commit against the same snapshot loses the status check and
	// must not release stock again.
	err := committer.Commit(context.Background(), order, domain.OrderStatusCancelled)

	_, ok := apperrors.IsConcurrentModificationError(err)
	assert.True(t, ok)
	assert.Equal(t, 10, productQuantity(t, db, productID))
}
