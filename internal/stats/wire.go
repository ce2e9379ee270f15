package stats

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/controller"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/repository"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.StatsController {
	repo := repository.NewMySQLStatsRepository(db)
	uc := usecase.NewSummaryUseCase(repo)
	return controller.NewStatsController(uc, logger)
}
