package cartstore

import (
	"context"
	"errors"
	"log"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo  CartRepository
	cache CartCache
	sfg   singleflight.Group // prevents cache stampede
}

func NewCartService(repo CartRepository, cache CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	// singleflight collapses concurrent cache misses for the same session
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			// a session without a cart is just an empty cart
			return &Cart{
				SessionID: sessionID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), sessionID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(*Cart), nil
}

// Snapshot reads the live cart once and freezes it for checkout.
func (s *CartService) Snapshot(ctx context.Context, sessionID string) (d.CartSnapshot, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return d.CartSnapshot{}, err
	}
	return cart.Snapshot(), nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, storeID string, item CartItem) error {
	if errAdd := s.repo.AddItem(ctx, sessionID, storeID, item); errAdd != nil {
		log.Printf("repo add item error: %v", errAdd)
		return errAdd
	}

	invalidateCache(s, sessionID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if errUpdate := s.repo.UpdateItemQuantity(ctx, sessionID, productID, quantity); errUpdate != nil {
		log.Printf("repo update item quantity error: %v", errUpdate)
		return errUpdate
	}

	invalidateCache(s, sessionID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	if errRemove := s.repo.RemoveItem(ctx, sessionID, productID); errRemove != nil {
		log.Printf("repo remove item error: %v", errRemove)
		return errRemove
	}

	invalidateCache(s, sessionID)
	return nil
}

// ClearCart also satisfies the checkout orchestrator's CartClearer. Clearing
// a cart that was already empty is not an error.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if errDelete := s.repo.DeleteCart(ctx, sessionID); errDelete != nil && !errors.Is(errDelete, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}

	invalidateCache(s, sessionID)
	return nil
}

func invalidateCache(s *CartService, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if errInvalidate := s.cache.Delete(ctx, sessionID); errInvalidate != nil {
		log.Printf("cache invalidate error: %v", errInvalidate)
	}
}
