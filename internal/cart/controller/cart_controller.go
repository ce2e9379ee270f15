package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/usecase"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/commons"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/dto"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

type CartUseCase interface {
	GetCart(ctx context.Context, userID string) ([]usecase.CartItemView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

type CartController struct {
	useCase CartUseCase
	logger  *zap.Logger
}

func NewCartController(useCase CartUseCase, logger *zap.Logger) *CartController {
	return &CartController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	views, err := c.useCase.GetCart(r.Context(), caller.UserID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	resp := CartResponse{Items: make([]CartItemResponse, len(views))}
	for i, view := range views {
		lineTotal := (view.Product.Price - view.Product.Discount) * float64(view.Item.Quantity)
		resp.Items[i] = CartItemResponse{
			ProductID:   view.Product.ID,
			ProductName: view.Product.Name,
			Price:       view.Product.Price,
			Discount:    view.Product.Discount,
			Quantity:    view.Item.Quantity,
			LineTotal:   lineTotal,
		}
		resp.Total += lineTotal
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.ProductID == "" {
		c.writeValidationError(w, "productId is required", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
		return
	}

	if err := c.useCase.AddItem(r.Context(), caller.UserID, req.ProductID, req.Quantity); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.useCase.UpdateQuantity(r.Context(), caller.UserID, productID, req.Quantity); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.CallerFromRequest(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	productID := chi.URLParam(r, "productId")

	if err := c.useCase.RemoveItem(r.Context(), caller.UserID, productID); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *CartController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *CartController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *CartController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *CartController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
