package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
}

type ProductReader interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// CartItemView is a cart item joined with its product's current listing.
type CartItemView struct {
	Item    domain.CartItem
	Product domain.Product
}

type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductReader
	logger      *zap.Logger
}

func NewCartUseCase(cartRepo CartRepository, productRepo ProductReader, logger *zap.Logger) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (uc *CartUseCase) GetCart(ctx context.Context, userID string) ([]CartItemView, error) {
	items, err := uc.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]CartItemView, 0, len(items))
	for _, item := range items {
		product, err := uc.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				// Product delisted after it was carted; skip rather than fail
				// the whole cart.
				continue
			}
			return nil, err
		}
		views = append(views, CartItemView{Item: item, Product: *product})
	}
	return views, nil
}

// AddItem adds quantity of a product to the cart, accumulating onto an
// existing line for the same product.
func (uc *CartUseCase) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	}

	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return apperrors.NewValidationError("product is not available", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "product is inactive",
		})
	}
	if !product.HasStockFor(quantity) {
		return apperrors.NewInsufficientStockError(productID, quantity, product.Quantity)
	}

	if err := uc.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return err
	}

	uc.logger.Info("cart item added",
		zap.String("userId", userID),
		zap.String("productId", productID),
		zap.Int("quantity", quantity))
	return nil
}

func (uc *CartUseCase) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity must be positive", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	}

	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.HasStockFor(quantity) {
		return apperrors.NewInsufficientStockError(productID, quantity, product.Quantity)
	}

	return uc.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, productID string) error {
	return uc.cartRepo.Delete(ctx, userID, productID)
}
