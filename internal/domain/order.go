package domain

import "time"

// Order statuses. An order only moves forward along the fulfillment graph
// (see AllowedTransitions) or to CANCELLED from any non-terminal status.
const (
	OrderStatusAwaitingConfirmation = "AWAITING_CONFIRMATION"
	OrderStatusAwaitingPickup       = "AWAITING_PICKUP"
	OrderStatusAwaitingDelivery     = "AWAITING_DELIVERY"
	OrderStatusDelivered            = "DELIVERED"
	OrderStatusCancelled            = "CANCELLED"
)

const (
	PaymentStatusUnpaid        = "UNPAID"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusPaid          = "PAID"
)

type Order struct {
	ID            string
	UserID        string
	OrderDate     time.Time
	TotalAmount   float64
	Status        string
	PaymentStatus string
	Lines         []OrderLine
}

// OrderLine is a priced quantity of one product captured at order-creation
// time. Price and discount are snapshots; later catalog changes do not
// affect the line.
type OrderLine struct {
	ID            string
	OrderID       string
	ProductID     string
	Quantity      int
	Price         float64
	OriginalPrice float64
	Discount      float64
}

// allowedTransitions is the fulfillment state machine. Terminal statuses
// have no outgoing edges.
var allowedTransitions = map[string][]string{
	OrderStatusAwaitingConfirmation: {OrderStatusAwaitingPickup, OrderStatusCancelled},
	OrderStatusAwaitingPickup:       {OrderStatusAwaitingDelivery, OrderStatusCancelled},
	OrderStatusAwaitingDelivery:     {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:            {},
	OrderStatusCancelled:            {},
}

func IsValidStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// CanTransition reports whether target is reachable from the order's
// current status in a single step.
func (o *Order) CanTransition(target string) bool {
	for _, next := range allowedTransitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}

func (o *Order) IsTerminal() bool {
	return IsTerminalStatus(o.Status)
}

func (o *Order) IsOwnedBy(userID string) bool {
	return o.UserID == userID
}

// LineTotal is the amount charged for one line.
func (l OrderLine) LineTotal() float64 {
	return (l.Price - l.Discount) * float64(l.Quantity)
}
