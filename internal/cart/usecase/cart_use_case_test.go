package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type mockCartRepo struct {
	FindByUserFn     func(ctx context.Context, userID string) ([]domain.CartItem, error)
	UpsertFn         func(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantityFn func(ctx context.Context, userID, productID string, quantity int) error
	DeleteFn         func(ctx context.Context, userID, productID string) error
}

func (m *mockCartRepo) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return m.FindByUserFn(ctx, userID)
}

func (m *mockCartRepo) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	return m.UpsertFn(ctx, userID, productID, quantity)
}

func (m *mockCartRepo) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return m.UpdateQuantityFn(ctx, userID, productID, quantity)
}

func (m *mockCartRepo) Delete(ctx context.Context, userID, productID string) error {
	return m.DeleteFn(ctx, userID, productID)
}

type mockProductReader struct {
	FindByIDFn func(ctx context.Context, id string) (*domain.Product, error)
}

func (m *mockProductReader) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return m.FindByIDFn(ctx, id)
}

func activeProduct(id string, stock int) *domain.Product {
	return &domain.Product{ID: id, Name: "Widget", Price: 10, Quantity: stock, IsActive: true}
}

func TestAddItem_Succeeds(t *testing.T) {
	var upserted int
	cartRepo := &mockCartRepo{
		UpsertFn: func(ctx context.Context, userID, productID string, quantity int) error {
			upserted = quantity
			return nil
		},
	}
	productRepo := &mockProductReader{
		FindByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return activeProduct(id, 10), nil
		},
	}

	uc := NewCartUseCase(cartRepo, productRepo, zap.NewNop())

	err := uc.AddItem(context.Background(), "user-1", "prod-1", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, upserted)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	uc := NewCartUseCase(&mockCartRepo{}, &mockProductReader{}, zap.NewNop())

	err := uc.AddItem(context.Background(), "user-1", "prod-1", 0)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestAddItem_RejectsInactiveProduct(t *testing.T) {
	productRepo := &mockProductReader{
		FindByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			p := activeProduct(id, 10)
			p.IsActive = false
			return p, nil
		},
	}
	uc := NewCartUseCase(&mockCartRepo{}, productRepo, zap.NewNop())

	err := uc.AddItem(context.Background(), "user-1", "prod-1", 1)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestAddItem_RejectsOverStock(t *testing.T) {
	productRepo := &mockProductReader{
		FindByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return activeProduct(id, 2), nil
		},
	}
	uc := NewCartUseCase(&mockCartRepo{}, productRepo, zap.NewNop())

	err := uc.AddItem(context.Background(), "user-1", "prod-1", 5)

	stockErr, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
}

func TestGetCart_SkipsDelistedProducts(t *testing.T) {
	cartRepo := &mockCartRepo{
		FindByUserFn: func(ctx context.Context, userID string) ([]domain.CartItem, error) {
			return []domain.CartItem{
				{ID: "c1", UserID: userID, ProductID: "prod-live", Quantity: 1},
				{ID: "c2", UserID: userID, ProductID: "prod-gone", Quantity: 2},
			}, nil
		},
	}
	productRepo := &mockProductReader{
		FindByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			if id == "prod-gone" {
				return nil, apperrors.NewNotFoundError("product not found")
			}
			return activeProduct(id, 10), nil
		},
	}

	uc := NewCartUseCase(cartRepo, productRepo, zap.NewNop())

	views, err := uc.GetCart(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "prod-live", views[0].Product.ID)
}

func TestUpdateQuantity_ChecksStock(t *testing.T) {
	productRepo := &mockProductReader{
		FindByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return activeProduct(id, 1), nil
		},
	}
	uc := NewCartUseCase(&mockCartRepo{}, productRepo, zap.NewNop())

	err := uc.UpdateQuantity(context.Background(), "user-1", "prod-1", 4)

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
}
