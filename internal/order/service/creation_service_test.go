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

	cartrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory"
	stockrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory/repository"
	orderrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/testutil"
)

func newCreationService(db *sql.DB) *CreationService {
	logger := zap.NewNop()
	return NewCreationService(
		db,
		orderrepo.NewMySQLOrderRepository(db),
		cartrepo.NewMySQLCartRepository(db),
		inventory.NewLedger(stockrepo.NewMySQLStockRepository(db), logger),
		logger,
		5*time.Second,
	)
}

func productQuantity(t *testing.T, db *sql.DB, productID string) int {
	t.Helper()
	var quantity int
	err := db.QueryRow(`SELECT quantity FROM products WHERE id = ?`, productID).Scan(&quantity)
	require.NoError(t, err)
	return quantity
}

func TestCreationService_CreateOrder_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	userID := uuid.New().String()
	productID := uuid.New().String()
	testutil.InsertTestProduct(t, db, productID, "Keyboard", 100, 10)

	cartRepo := cartrepo.NewMySQLCartRepository(db)
	require.NoError(t, cartRepo.Upsert(context.Background(), userID, productID, 3))

	orderID := uuid.New().String()
	order := &domain.Order{
		ID:            orderID,
		UserID:        userID,
		OrderDate:     time.Now().UTC(),
		TotalAmount:   300,
		Status:        domain.OrderStatusAwaitingConfirmation,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Lines: []domain.OrderLine{
			{ID: uuid.New().String(), OrderID: orderID, ProductID: productID, Quantity: 3, Price: 100, OriginalPrice: 100},
		},
	}

	svc := newCreationService(db)

	require.NoError(t, svc.CreateOrder(context.Background(), order))

	// Stock reserved.
	assert.Equal(t, 7, productQuantity(t, db, productID))

	// Order persisted.
	found, err := orderrepo.NewMySQLOrderRepository(db).FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingConfirmation, found.Status)

	// Cart cleared.
	items, err := cartRepo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreationService_CreateOrder_InsufficientStockRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	userID := uuid.New().String()
	okProduct := uuid.New().String()
	shortProduct := uuid.New().String()
	testutil.InsertTestProduct(t, db, okProduct, "Keyboard", 100, 10)
	testutil.InsertTestProduct(t, db, shortProduct, "Monitor", 250, 1)

	cartRepo := cartrepo.NewMySQLCartRepository(db)
	require.NoError(t, cartRepo.Upsert(context.Background(), userID, okProduct, 2))
	require.NoError(t, cartRepo.Upsert(context.Background(), userID, shortProduct, 5))

	orderID := uuid.New().String()
	order := &domain.Order{
		ID:            orderID,
		UserID:        userID,
		OrderDate:     time.Now().UTC(),
		TotalAmount:   1450,
		Status:        domain.OrderStatusAwaitingConfirmation,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Lines: []domain.OrderLine{
			{ID: uuid.New().String(), OrderID: orderID, ProductID: okProduct, Quantity: 2, Price: 100, OriginalPrice: 100},
			{ID: uuid.New().String(), OrderID: orderID, ProductID: shortProduct, Quantity: 5, Price: 250, OriginalPrice: 250},
		},
	}

	svc := newCreationService(db)

	err := svc.CreateOrder(context.Background(), order)

	stockErr, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, shortProduct, stockErr.ProductID)

	// Everything rolled back: the first line's reservation included.
	assert.Equal(t, 10, productQuantity(t, db, okProduct))
	assert.Equal(t, 1, productQuantity(t, db, shortProduct))

	_, err = orderrepo.NewMySQLOrderRepository(db).FindByID(context.Background(), orderID)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	items, err := cartRepo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
