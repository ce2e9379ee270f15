package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Discount    float64
	Quantity    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStockFor reports whether the product's current available quantity
// covers the requested amount.
func (p Product) HasStockFor(quantity int) bool {
	return p.Quantity >= quantity
}
