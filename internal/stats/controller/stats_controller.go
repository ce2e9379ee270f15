package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/commons"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/dto"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/usecase"
)

type SummaryUseCase interface {
	GetSummary(ctx context.Context) (*usecase.Summary, error)
}

type SpenderDTO struct {
	UserID string  `json:"userId"`
	Spent  float64 `json:"spent"`
}

type SummaryResponse struct {
	TotalRevenue      float64      `json:"totalRevenue"`
	TotalOrders       int          `json:"totalOrders"`
	AverageOrderValue float64      `json:"averageOrderValue"`
	DistinctUsers     int          `json:"distinctUsers"`
	TopSpenders       []SpenderDTO `json:"topSpenders"`
}

type StatsController struct {
	useCase SummaryUseCase
	logger  *zap.Logger
}

func NewStatsController(useCase SummaryUseCase, logger *zap.Logger) *StatsController {
	return &StatsController{
		useCase: useCase,
		logger:  logger,
	}
}

// GetSummary serves the admin dashboard figures. Admin only.
func (c *StatsController) GetSummary(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if !caller.IsAdmin() {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", "admin role required")
		return
	}

	summary, err := c.useCase.GetSummary(r.Context())
	if err != nil {
		if _, ok := apperrors.IsForbiddenError(err); ok {
			c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
			return
		}
		logger.Error("summary query failed", zap.Error(err))
		c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	spenders := make([]SpenderDTO, len(summary.TopSpenders))
	for i, s := range summary.TopSpenders {
		spenders[i] = SpenderDTO{UserID: s.UserID, Spent: s.Spent}
	}

	c.writeJSON(w, http.StatusOK, SummaryResponse{
		TotalRevenue:      summary.TotalRevenue,
		TotalOrders:       summary.TotalOrders,
		AverageOrderValue: summary.AverageOrderValue,
		DistinctUsers:     summary.DistinctUsers,
		TopSpenders:       spenders,
	})
}

func (c *StatsController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *StatsController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
