// Package cartstore owns the shopper cart lifecycle: Mongo persistence with
// a Redis cache in front. Checkout only ever consumes a frozen snapshot.
package cartstore

import (
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty"`
	SessionID string     `bson:"session_id"`
	StoreID   string     `bson:"store_id"`
	Items     []CartItem `bson:"items"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// CartItem captures the price at the moment the shopper added the product;
// later catalog edits do not change what the buyer saw.
type CartItem struct {
	ProductID int64     `bson:"product_id"`
	Name      string    `bson:"name"`
	UnitPrice float64   `bson:"unit_price"`
	Quantity  int       `bson:"quantity"`
	Reference string    `bson:"reference"`
	AddedAt   time.Time `bson:"added_at"`
}

// Snapshot freezes the cart into the immutable view checkout works on.
func (c *Cart) Snapshot() d.CartSnapshot {
	lines := make([]d.CartLine, len(c.Items))
	for i, item := range c.Items {
		lines[i] = d.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Reference: item.Reference,
		}
	}
	return d.CartSnapshot{
		SessionID:  c.SessionID,
		Lines:      lines,
		CapturedAt: time.Now(),
	}
}
