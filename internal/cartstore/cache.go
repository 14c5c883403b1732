package cartstore

import (
	"context"
	"errors"
)

type CartCache interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Set(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
