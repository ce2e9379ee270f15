package cart

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/controller"
	cartrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/usecase"
	productrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.CartController {
	cartRepo := cartrepo.NewMySQLCartRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	uc := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	return controller.NewCartController(uc, logger)
}
