package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/testutil"
)

// Unit Tests

func TestNewMySQLStockRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLStockRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestStockRepository_Reserve_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertTestProduct(t, db, "prod-1", "Widget", 10.0, 5)
	repo := NewMySQLStockRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.Reserve(context.Background(), tx, "prod-1", 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	available, err := repo.AvailableQuantity(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestStockRepository_Reserve_InsufficientStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertTestProduct(t, db, "prod-1", "Widget", 10.0, 2)
	repo := NewMySQLStockRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Reserve(context.Background(), tx, "prod-1", 3)
	require.Error(t, err)

	ise, ok := errors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, "prod-1", ise.ProductID)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, ise.Available)
}

func TestStockRepository_Reserve_StockUnchangedOnFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertTestProduct(t, db, "prod-1", "Widget", 10.0, 2)
	repo := NewMySQLStockRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.Reserve(context.Background(), tx, "prod-1", 3)
	require.Error(t, err)
	require.NoError(t, tx.Rollback())

	available, err := repo.AvailableQuantity(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 2, available)
}

func TestStockRepository_Reserve_ProductNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLStockRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Reserve(context.Background(), tx, "missing", 1)
	require.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestStockRepository_Release_RestoresQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	testutil.InsertTestProduct(t, db, "prod-1", "Widget", 10.0, 0)
	repo := NewMySQLStockRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.Release(context.Background(), tx, "prod-1", 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	available, err := repo.AvailableQuantity(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 5, available)
}

func TestStockRepository_AvailableQuantity_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLStockRepository(db)

	_, err := repo.AvailableQuantity(context.Background(), "missing")
	require.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
