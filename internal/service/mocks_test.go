package service

import (
	"context"
	"sync"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

// mockReservationClient returns queued results, one per Reserve call.
type reserveResult struct {
	outcome *d.ReservationOutcome
	err     error
}

type mockReservationClient struct {
	mu      sync.Mutex
	results []reserveResult
	calls   int
	stores  []string
	lines   [][]d.ReservationRequestLine
	notes   []string
}

func (m *mockReservationClient) Reserve(_ context.Context, storeID string, lines []d.ReservationRequestLine, note string) (*d.ReservationOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.stores = append(m.stores, storeID)
	m.lines = append(m.lines, lines)
	m.notes = append(m.notes, note)
	if len(m.results) == 0 {
		return &d.ReservationOutcome{Success: true}, nil
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next.outcome, next.err
}

func (m *mockReservationClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRecorder captures the record on a channel so tests can wait for the
// detached write without racing it.
type mockRecorder struct {
	err     error
	created chan *d.OrderRecord
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{created: make(chan *d.OrderRecord, 1)}
}

func (m *mockRecorder) Create(_ context.Context, record *d.OrderRecord) error {
	m.created <- record
	return m.err
}

type mockHandoff struct {
	mu           sync.Mutex
	calls        int
	messages     []string
	destinations []string
}

func (m *mockHandoff) Open(messageText, destination string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, messageText)
	m.destinations = append(m.destinations, destination)
	return "https://wa.me/" + destination
}

func (m *mockHandoff) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCartClearer struct {
	mu      sync.Mutex
	err     error
	cleared []string
}

func (m *mockCartClearer) ClearCart(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, sessionID)
	return m.err
}

func (m *mockCartClearer) clearedSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cleared...)
}

// newTestOrchestrator wires a fully mocked orchestrator for testing.
func newTestOrchestrator(
	reservations *mockReservationClient,
	recorder *mockRecorder,
	handoff *mockHandoff,
	carts *mockCartClearer,
) *CheckoutOrchestrator {
	return NewCheckoutOrchestrator(reservations, recorder, handoff, carts)
}
