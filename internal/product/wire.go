package product

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/controller"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.ProductController {
	repo := repository.NewMySQLRepository(db)
	uc := usecase.NewCatalogUseCase(repo)
	return controller.NewProductController(uc, logger)
}
