package dto

import (
	"time"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
)

type OrderResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	OrderDate     time.Time      `json:"orderDate"`
	TotalAmount   float64        `json:"totalAmount"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus"`
	Lines         []OrderLineDTO `json:"lines"`
}

type OrderLineDTO struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"productId"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Discount      float64 `json:"discount"`
	LineTotal     float64 `json:"lineTotal"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func OrderToResponse(order *domain.Order) OrderResponse {
	lines := make([]OrderLineDTO, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineDTO{
			ID:            line.ID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         line.Price,
			OriginalPrice: line.OriginalPrice,
			Discount:      line.Discount,
			LineTotal:     line.LineTotal(),
		}
	}
	return OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		OrderDate:     order.OrderDate,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Lines:         lines,
	}
}

func OrdersToResponses(orders []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = OrderToResponse(&orders[i])
	}
	return responses
}
