package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

type mockCartRepo struct {
	FindByUserFn func(ctx context.Context, userID string) ([]domain.CartItem, error)
}

func (m *mockCartRepo) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return m.FindByUserFn(ctx, userID)
}

type mockProductRepo struct {
	FindByIDsFn func(ctx context.Context, ids []string) ([]domain.Product, error)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	return m.FindByIDsFn(ctx, ids)
}

type mockCreationService struct {
	CreateOrderFn func(ctx context.Context, order *domain.Order) error
	created       *domain.Order
}

func (m *mockCreationService) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.created = order
	if m.CreateOrderFn != nil {
		return m.CreateOrderFn(ctx, order)
	}
	return nil
}

func cartWith(items ...domain.CartItem) *mockCartRepo {
	return &mockCartRepo{
		FindByUserFn: func(ctx context.Context, userID string) ([]domain.CartItem, error) {
			return items, nil
		},
	}
}

func productsWith(products ...domain.Product) *mockProductRepo {
	return &mockProductRepo{
		FindByIDsFn: func(ctx context.Context, ids []string) ([]domain.Product, error) {
			return products, nil
		},
	}
}

func newCreateUseCase(cart *mockCartRepo, products *mockProductRepo, svc *mockCreationService, bridge workflow.Bridge) *CreateOrderUseCase {
	return NewCreateOrderUseCase(cart, products, svc, bridge, zap.NewNop(), time.Second)
}

func TestCreateOrder_FromCart(t *testing.T) {
	cart := cartWith(
		domain.CartItem{ID: "c1", UserID: "user-1", ProductID: "prod-b", Quantity: 2},
		domain.CartItem{ID: "c2", UserID: "user-1", ProductID: "prod-a", Quantity: 1},
	)
	products := productsWith(
		domain.Product{ID: "prod-a", Name: "Keyboard", Price: 120, Discount: 20, Quantity: 10, IsActive: true},
		domain.Product{ID: "prod-b", Name: "Mouse", Price: 40, Quantity: 10, IsActive: true},
	)
	svc := &mockCreationService{}
	engine := workflow.NewInProcEngine(zap.NewNop())

	uc := newCreateUseCase(cart, products, svc, engine)

	order, err := uc.CreateOrder(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingConfirmation, order.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, order.PaymentStatus)
	// (120-20)*1 + 40*2
	assert.Equal(t, 180.0, order.TotalAmount)

	require.Len(t, order.Lines, 2)
	// Lines are held in product-id order for deterministic lock ordering.
	assert.Equal(t, "prod-a", order.Lines[0].ProductID)
	assert.Equal(t, "prod-b", order.Lines[1].ProductID)
	assert.Equal(t, 120.0, order.Lines[0].OriginalPrice)
	assert.Equal(t, 20.0, order.Lines[0].Discount)

	require.NotNil(t, svc.created)
	assert.Equal(t, order.ID, svc.created.ID)

	handle, err := engine.ActiveTask(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, workflow.TaskConfirmation, handle.TaskDefinitionKey)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	uc := newCreateUseCase(cartWith(), productsWith(), &mockCreationService{}, workflow.NewInProcEngine(zap.NewNop()))

	_, err := uc.CreateOrder(context.Background(), "user-1")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	cart := cartWith(domain.CartItem{ID: "c1", UserID: "user-1", ProductID: "prod-gone", Quantity: 1})
	uc := newCreateUseCase(cart, productsWith(), &mockCreationService{}, workflow.NewInProcEngine(zap.NewNop()))

	_, err := uc.CreateOrder(context.Background(), "user-1")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	cart := cartWith(domain.CartItem{ID: "c1", UserID: "user-1", ProductID: "prod-a", Quantity: 1})
	products := productsWith(domain.Product{ID: "prod-a", Name: "Keyboard", Price: 120, Quantity: 10, IsActive: false})
	uc := newCreateUseCase(cart, products, &mockCreationService{}, workflow.NewInProcEngine(zap.NewNop()))

	_, err := uc.CreateOrder(context.Background(), "user-1")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateOrder_CreationFailurePropagates(t *testing.T) {
	cart := cartWith(domain.CartItem{ID: "c1", UserID: "user-1", ProductID: "prod-a", Quantity: 5})
	products := productsWith(domain.Product{ID: "prod-a", Name: "Keyboard", Price: 120, Quantity: 2, IsActive: true})
	svc := &mockCreationService{
		CreateOrderFn: func(ctx context.Context, order *domain.Order) error {
			return apperrors.NewInsufficientStockError("prod-a", 5, 2)
		},
	}
	uc := newCreateUseCase(cart, products, svc, workflow.NewInProcEngine(zap.NewNop()))

	_, err := uc.CreateOrder(context.Background(), "user-1")

	stockErr, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, "prod-a", stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
}
