package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/metrics"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type CreationService interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

// CreateOrderUseCase turns a user's cart into an order: price and discount
// snapshots per line, stock held from the moment of creation, cart cleared
// in the same commit, and a correlated fulfillment process started.
type CreateOrderUseCase struct {
	cartRepo      CartRepository
	productRepo   ProductRepository
	creationSvc   CreationService
	bridge        workflow.Bridge
	logger        *zap.Logger
	engineTimeout time.Duration
}

func NewCreateOrderUseCase(
	cartRepo CartRepository,
	productRepo ProductRepository,
	creationSvc CreationService,
	bridge workflow.Bridge,
	logger *zap.Logger,
	engineTimeout time.Duration,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		creationSvc:   creationSvc,
		bridge:        bridge,
		logger:        logger,
		engineTimeout: engineTimeout,
	}
}

func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, userID string) (*domain.Order, error) {
	items, err := uc.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "cart",
			Message: "cart must contain at least one item",
		})
	}

	order, err := uc.buildOrder(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	// The process is started before the local commit so an unreachable
	// engine fails the creation with nothing persisted. A process orphaned
	// by a failed commit is never referenced again.
	engineCtx, cancel := context.WithTimeout(ctx, uc.engineTimeout)
	defer cancel()
	if err := uc.bridge.StartProcess(engineCtx, order.ID, workflow.Variables{
		workflow.VarOrderID: order.ID,
	}); err != nil {
		return nil, err
	}

	if err := uc.creationSvc.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	uc.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("userId", userID),
		zap.Float64("totalAmount", order.TotalAmount))
	return order, nil
}

func (uc *CreateOrderUseCase) buildOrder(ctx context.Context, userID string, items []domain.CartItem) (*domain.Order, error) {
	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := uc.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	orderID := uuid.New().String()
	order := &domain.Order{
		ID:            orderID,
		UserID:        userID,
		OrderDate:     time.Now().UTC(),
		Status:        domain.OrderStatusAwaitingConfirmation,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError("product " + item.ProductID + " not found")
		}
		if !product.IsActive {
			return nil, apperrors.NewValidationError("product "+product.Name+" is not available", apperrors.ValidationDetail{
				Field:   "productId",
				Message: "product is inactive",
			})
		}
		if item.Quantity < 1 {
			return nil, apperrors.NewValidationError("invalid cart quantity", apperrors.ValidationDetail{
				Field:   "quantity",
				Message: "quantity must be positive",
			})
		}

		line := domain.OrderLine{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			ProductID:     product.ID,
			Quantity:      item.Quantity,
			Price:         product.Price,
			OriginalPrice: product.Price,
			Discount:      product.Discount,
		}
		order.Lines = append(order.Lines, line)
		order.TotalAmount += line.LineTotal()
	}

	// Reserve in a fixed order to avoid lock cycles between concurrent
	// creations touching the same products.
	sort.Slice(order.Lines, func(i, j int) bool {
		return order.Lines[i].ProductID < order.Lines[j].ProductID
	})

	return order, nil
}
