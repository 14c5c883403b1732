// Package storeprofile resolves the per-store configuration a checkout needs:
// the WhatsApp number orders are handed off to, whether stock is tracked, and
// the discount settings.
package storeprofile

import (
	"context"
	"errors"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreRepository interface {
	GetStore(ctx context.Context, storeID string) (*d.StoreProfile, error)
	UpsertStore(ctx context.Context, profile *d.StoreProfile) error
}
