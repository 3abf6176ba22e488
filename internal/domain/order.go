package domain

import "time"

// LineItem is a product snapshot inside an order.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is written once at checkout and never modified.
type Order struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	LineItems   []LineItem `json:"products"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"orderDate"`
}
