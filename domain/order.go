package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderRecord is the finalized order handed to the recorder. Built at most
// once per submission and never mutated afterward.
type OrderRecord struct {
	ID              uuid.UUID     `json:"id"`
	StoreID         string        `json:"store_id"`
	Customer        CustomerInfo  `json:"customer"`
	Lines           []OrderLine   `json:"lines"`
	Total           float64       `json:"total"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	DiscountApplied float64       `json:"discount_applied"`
	CreatedAt       time.Time     `json:"created_at"`
}
