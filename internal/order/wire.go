package order

import (
	"database/sql"

	"go.uber.org/zap"

	cartrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/config"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory"
	stockrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/inventory/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/controller"
	orderrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/service"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/usecase"
	productrepo "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

func NewModule(db *sql.DB, cfg *config.Config, bridge workflow.Bridge, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	cartRepo := cartrepo.NewMySQLCartRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	ledger := inventory.NewLedger(stockrepo.NewMySQLStockRepository(db), logger)

	creationSvc := service.NewCreationService(db, orderRepo, cartRepo, ledger, logger, cfg.Order.TxTimeout)
	committer := service.NewTransitionCommitter(db, orderRepo, ledger, logger, cfg.Order.TxTimeout)

	createUC := usecase.NewCreateOrderUseCase(
		cartRepo,
		productRepo,
		creationSvc,
		bridge,
		logger,
		cfg.Workflow.CallTimeout,
	)
	lifecycleUC := usecase.NewLifecycleUseCase(
		orderRepo,
		bridge,
		ledger,
		committer,
		logger,
		cfg.Order.MaxRetryAttempts,
		cfg.Workflow.CallTimeout,
	)

	return controller.NewOrderController(createUC, lifecycleUC, logger)
}
