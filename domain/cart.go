package domain

import (
	"fmt"
	"time"
)

// CartLine is a single product in the cart with the price captured at the
// moment the shopper added it. Lines are unique per product; deduplication
// is the cart store's responsibility, not checkout's.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Reference string  `json:"reference,omitempty"` // SKU or display id shown to the buyer
}

// CartSnapshot is the read-only view of the cart taken once when a checkout
// submission begins. The orchestrator only ever works on this value, never on
// the live cart, so concurrent cart edits cannot change an in-flight
// submission.
type CartSnapshot struct {
	SessionID  string     `json:"session_id"`
	Lines      []CartLine `json:"lines"`
	CapturedAt time.Time  `json:"captured_at"`
}

func (s *CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Subtotal is recomputed on every call rather than cached.
func (s *CartSnapshot) Subtotal() float64 {
	var total float64
	for _, line := range s.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// LineName resolves a product id to the buyer-facing name, falling back to a
// generic label when the product is no longer in the snapshot.
func (s *CartSnapshot) LineName(productID int64) string {
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return line.Name
		}
	}
	return fmt.Sprintf("producto %d", productID)
}
