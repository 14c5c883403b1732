package cartstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockRepository) AddItem(_ context.Context, sessionID string, storeID string, item CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &Cart{SessionID: sessionID, StoreID: storeID}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockRepository) UpdateItemQuantity(_ context.Context, _ string, productID int64, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) RemoveItem(_ context.Context, _ string, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCartCache struct {
	m    sync.RWMutex
	cart *Cart
	err  error
}

func (m *mockCartCache) Get(context.Context, string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCartCache) Set(_ context.Context, _ string, cart *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCartCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCartCache) getCart() *Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func TestGetCart_Success(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		StoreID:   "store-1",
		Items: []CartItem{
			{ProductID: 1, Name: "Taza", UnitPrice: 10, Quantity: 2},
			{ProductID: 2, Name: "Plato", UnitPrice: 4.5, Quantity: 1},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, 2, len(ret.Items))
	assert.Equal(t, int64(1), ret.Items[0].ProductID)
	assert.Equal(t, 2, ret.Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGetCart_CacheHit(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items:     []CartItem{{ProductID: 1, Quantity: 3}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: nil} // repo should NOT be called
	mockC := &mockCartCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, len(ret.Items))
	assert.Equal(t, int64(1), ret.Items[0].ProductID)
}

func TestGetCart_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
	assert.Nil(t, mockC.getCart())
}

func TestGetCart_NotFound_ReturnsEmptyCart(t *testing.T) {
	mockRepo := &mockRepository{err: ErrCartNotFound}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.Equal(t, "sess-1", ret.SessionID)
	assert.Empty(t, ret.Items)
}

func TestSnapshot_FreezesCartLines(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: 7, Name: "Taza", UnitPrice: 10, Quantity: 2, Reference: "roja"},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	snap, err := sut.Snapshot(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", snap.SessionID)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(7), snap.Lines[0].ProductID)
	assert.Equal(t, "Taza", snap.Lines[0].Name)
	assert.Equal(t, "roja", snap.Lines[0].Reference)
	assert.Equal(t, 20.0, snap.Subtotal())
	assert.False(t, snap.CapturedAt.IsZero())

	// later mutations must not leak into the snapshot
	cart.Items[0].Quantity = 99
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestSnapshot_EmptyCart(t *testing.T) {
	mockRepo := &mockRepository{err: ErrCartNotFound}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	snap, err := sut.Snapshot(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestAddItem_Success(t *testing.T) {
	cart := &Cart{SessionID: "sess-1", Items: []CartItem{}}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "sess-1", "store-1", CartItem{
		ProductID: 1,
		Name:      "Taza",
		UnitPrice: 10,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, len(mockRepo.cart.Items))
	assert.Equal(t, int64(1), mockRepo.cart.Items[0].ProductID)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestAddItem_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "sess-1", "store-1", CartItem{ProductID: 1, Quantity: 2})
	require.ErrorContains(t, err, "database error")
}

func TestUpdateQuantity_Success(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 10},
		},
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	err := sut.UpdateQuantity(context.Background(), "sess-1", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, mockRepo.cart.Items[1].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestUpdateQuantity_ItemNotFound(t *testing.T) {
	cart := &Cart{SessionID: "sess-1", Items: []CartItem{{ProductID: 1, Quantity: 5}}}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	err := sut.UpdateQuantity(context.Background(), "sess-1", 99, 3)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem_Success(t *testing.T) {
	cart := &Cart{
		SessionID: "sess-1",
		Items: []CartItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 10},
		},
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	err := sut.RemoveItem(context.Background(), "sess-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, len(mockRepo.cart.Items))
	assert.Equal(t, int64(2), mockRepo.cart.Items[0].ProductID)
}

func TestClearCart_Success(t *testing.T) {
	cart := &Cart{SessionID: "sess-1", Items: []CartItem{{ProductID: 1, Quantity: 5}}}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCartCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, mockRepo.cart)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestClearCart_MissingCartIsNotAnError(t *testing.T) {
	mockRepo := &mockRepository{cart: nil}
	mockC := &mockCartCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "sess-1")
	require.NoError(t, err)
}
