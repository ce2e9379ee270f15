package usecase

import (
	"context"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// CatalogUseCase is the read side of the product catalog.
type CatalogUseCase struct {
	repo ProductRepository
}

func NewCatalogUseCase(repo ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

// ListProducts returns the active catalog.
func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	active := products[:0]
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}
