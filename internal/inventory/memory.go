package inventory

import (
	"context"
	"sync"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

// MemoryStore keeps per-store stock levels in memory. Each line is reserved
// independently: lines with enough stock are decremented even when other
// lines in the same batch fail, and the batch reports overall failure with
// per-line detail.
type MemoryStore struct {
	mu     sync.Mutex
	stocks map[string]map[int64]int // storeID -> productID -> available
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stocks: make(map[string]map[int64]int)}
}

// SetStock sets the available quantity for a product (used for seeding).
func (s *MemoryStore) SetStock(storeID string, productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stocks[storeID] == nil {
		s.stocks[storeID] = make(map[int64]int)
	}
	s.stocks[storeID][productID] = quantity
}

func (s *MemoryStore) Reserve(_ context.Context, storeID string, lines []d.ReservationRequestLine, _ string) (*d.ReservationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stocks := s.stocks[storeID]
	outcome := &d.ReservationOutcome{Success: true}

	for _, line := range lines {
		result := d.ReservationLineResult{ProductID: line.ProductID, Success: true}
		available, tracked := stocks[line.ProductID]
		switch {
		case !tracked:
			result.Success = false
			result.ErrorMessage = "product not found"
			outcome.Success = false
		case available < line.Quantity:
			result.Success = false
			result.ErrorMessage = "insufficient stock"
			outcome.Success = false
		default:
			stocks[line.ProductID] = available - line.Quantity
		}
		outcome.Lines = append(outcome.Lines, result)
	}

	return outcome, nil
}
