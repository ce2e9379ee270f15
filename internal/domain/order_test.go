package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_CanTransition_ForwardEdges(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusAwaitingConfirmation, OrderStatusAwaitingPickup, true},
		{OrderStatusAwaitingConfirmation, OrderStatusCancelled, true},
		{OrderStatusAwaitingConfirmation, OrderStatusAwaitingDelivery, false},
		{OrderStatusAwaitingConfirmation, OrderStatusDelivered, false},
		{OrderStatusAwaitingPickup, OrderStatusAwaitingDelivery, true},
		{OrderStatusAwaitingPickup, OrderStatusCancelled, true},
		{OrderStatusAwaitingPickup, OrderStatusDelivered, false},
		{OrderStatusAwaitingPickup, OrderStatusAwaitingConfirmation, false},
		{OrderStatusAwaitingDelivery, OrderStatusDelivered, true},
		{OrderStatusAwaitingDelivery, OrderStatusCancelled, true},
		{OrderStatusAwaitingDelivery, OrderStatusAwaitingPickup, false},
	}

	for _, tc := range cases {
		order := Order{Status: tc.from}
		assert.Equal(t, tc.allowed, order.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrder_CanTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	targets := []string{
		OrderStatusAwaitingConfirmation,
		OrderStatusAwaitingPickup,
		OrderStatusAwaitingDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	for _, terminal := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		order := Order{Status: terminal}
		assert.True(t, order.IsTerminal())
		for _, target := range targets {
			assert.False(t, order.CanTransition(target),
				"terminal %s must not transition to %s", terminal, target)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalStatus(OrderStatusAwaitingConfirmation))
	assert.False(t, IsTerminalStatus(OrderStatusAwaitingPickup))
	assert.False(t, IsTerminalStatus(OrderStatusAwaitingDelivery))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusAwaitingPickup))
	assert.False(t, IsValidStatus("SHIPPED"))
	assert.False(t, IsValidStatus(""))
}

func TestOrder_IsOwnedBy(t *testing.T) {
	order := Order{UserID: "user-1"}

	assert.True(t, order.IsOwnedBy("user-1"))
	assert.False(t, order.IsOwnedBy("user-2"))
}

func TestOrderLine_LineTotal(t *testing.T) {
	line := OrderLine{
		Quantity:      3,
		Price:         100,
		OriginalPrice: 100,
		Discount:      10,
	}

	assert.Equal(t, 270.0, line.LineTotal())
}

func TestOrder_Creation(t *testing.T) {
	orderDate := time.Now()
	order := Order{
		ID:            "order-1",
		UserID:        "user-1",
		OrderDate:     orderDate,
		TotalAmount:   270.0,
		Status:        OrderStatusAwaitingConfirmation,
		PaymentStatus: PaymentStatusUnpaid,
		Lines: []OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "prod-1", Quantity: 3, Price: 100, OriginalPrice: 100, Discount: 10},
		},
	}

	assert.Equal(t, OrderStatusAwaitingConfirmation, order.Status)
	assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)
	assert.Len(t, order.Lines, 1)
	assert.Equal(t, order.TotalAmount, order.Lines[0].LineTotal())
}

func TestCaller_IsAdmin(t *testing.T) {
	assert.True(t, Caller{UserID: "u1", Role: RoleAdmin}.IsAdmin())
	assert.False(t, Caller{UserID: "u1", Role: RoleUser}.IsAdmin())
	assert.False(t, Caller{UserID: "u1"}.IsAdmin())
}

func TestProduct_HasStockFor(t *testing.T) {
	p := Product{Quantity: 5}

	assert.True(t, p.HasStockFor(5))
	assert.True(t, p.HasStockFor(1))
	assert.False(t, p.HasStockFor(6))
}
