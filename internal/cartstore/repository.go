package cartstore

import (
	"context"
	"errors"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, storeID string, item CartItem) error
	UpdateItemQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error
	RemoveItem(ctx context.Context, sessionID string, productID int64) error
	DeleteCart(ctx context.Context, sessionID string) error
}
