package domain

import "time"

// CartItem is a user's intent to buy a quantity of one product. Cart items
// are consumed (deleted) atomically when the order is created.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}
