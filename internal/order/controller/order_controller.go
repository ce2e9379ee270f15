package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/commons"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/dto"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, userID string) (*domain.Order, error)
}

type LifecycleUseCase interface {
	RequestTransition(ctx context.Context, orderID, targetStatus string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string, caller domain.Caller) (*domain.Order, error)
	ConfirmDelivery(ctx context.Context, orderID, userID string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string, caller domain.Caller) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type OrderController struct {
	createUC    CreateOrderUseCase
	lifecycleUC LifecycleUseCase
	logger      *zap.Logger
}

func NewOrderController(createUC CreateOrderUseCase, lifecycleUC LifecycleUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		createUC:    createUC,
		lifecycleUC: lifecycleUC,
		logger:      logger,
	}
}

// CreateOrder places an order from the caller's cart.
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	order, err := c.createUC.CreateOrder(r.Context(), caller.UserID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.OrderToResponse(order))
}

// ListOrders returns every order. Admin only.
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	if !caller.IsAdmin() {
		c.handleError(w, traceID, apperrors.NewForbiddenError("admin role required"), logger)
		return
	}

	orders, err := c.lifecycleUC.ListOrders(r.Context())
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrdersToResponses(orders))
}

// ListMyOrders returns the caller's own orders.
func (c *OrderController) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	orders, err := c.lifecycleUC.ListOrdersByUser(r.Context(), caller.UserID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrdersToResponses(orders))
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	orderID, err := c.orderIDFromPath(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.lifecycleUC.GetOrder(r.Context(), orderID, caller)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

// UpdateStatus requests a transition to the status in the body. The response
// carries the status the fulfillment process actually resolved, which may
// differ from the requested one.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	if !caller.IsAdmin() {
		c.handleError(w, traceID, apperrors.NewForbiddenError("admin role required"), logger)
		return
	}

	orderID, err := c.orderIDFromPath(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Status == "" {
		c.writeValidationError(w, "status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	order, err := c.lifecycleUC.RequestTransition(r.Context(), orderID, req.Status)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	orderID, err := c.orderIDFromPath(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.lifecycleUC.Cancel(r.Context(), orderID, caller)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

func (c *OrderController) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	orderID, err := c.orderIDFromPath(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.lifecycleUC.ConfirmDelivery(r.Context(), orderID, caller.UserID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderToResponse(order))
}

func (c *OrderController) orderIDFromPath(r *http.Request) (string, error) {
	orderID := chi.URLParam(r, "orderId")
	if _, err := uuid.Parse(orderID); err != nil {
		return "", apperrors.NewValidationError("invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a UUID",
		})
	}
	return orderID, nil
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	if _, ok := apperrors.IsAlreadyTerminalError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "ALREADY_TERMINAL", err.Error())
		return
	}
	if _, ok := apperrors.IsAlreadyConfirmedError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "ALREADY_CONFIRMED", err.Error())
		return
	}
	if _, ok := apperrors.IsUnsupportedTaskError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "UNSUPPORTED_TASK", err.Error())
		return
	}
	if _, ok := apperrors.IsConcurrentModificationError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONCURRENT_MODIFICATION", err.Error())
		return
	}
	if _, ok := apperrors.IsEngineUnavailableError(err); ok {
		logger.Error("workflow engine unavailable", zap.Error(err))
		c.writeErrorResponse(w, traceID, http.StatusServiceUnavailable, "ENGINE_UNAVAILABLE", "fulfillment engine is unavailable")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
