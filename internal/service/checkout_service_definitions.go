package service

import (
	"context"
	"sync"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/google/uuid"
)

// StockReservationClient reserves inventory for a cart before hand-off.
// A nil error with Success=false is a data-level failure (insufficient stock
// on some lines); a non-nil error is a transport fault.
type StockReservationClient interface {
	Reserve(ctx context.Context, storeID string, lines []d.ReservationRequestLine, note string) (*d.ReservationOutcome, error)
}

// OrderRecorder persists a finalized order. The orchestrator dispatches to it
// and never waits for or reacts to the result.
type OrderRecorder interface {
	Create(ctx context.Context, record *d.OrderRecord) error
}

// MessagingHandoff turns the outbound message into the deep link the buyer is
// navigated to. Link building cannot fail.
type MessagingHandoff interface {
	Open(messageText, destination string) string
}

// CartClearer empties the session cart once a submission completes.
type CartClearer interface {
	ClearCart(ctx context.Context, sessionID string) error
}

// CheckoutOrchestrator sequences validation, discount computation, stock
// reservation, failure resolution, persistence and the messaging hand-off.
// At most one submission may be in flight per checkout session.
type CheckoutOrchestrator struct {
	reservations    StockReservationClient
	recorder        OrderRecorder
	handoff         MessagingHandoff
	carts           CartClearer
	recorderTimeout time.Duration

	mu        sync.Mutex
	bySession map[string]*Submission
	byID      map[uuid.UUID]*Submission
}

func NewCheckoutOrchestrator(
	reservations StockReservationClient,
	recorder OrderRecorder,
	handoff MessagingHandoff,
	carts CartClearer,
) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		reservations:    reservations,
		recorder:        recorder,
		handoff:         handoff,
		carts:           carts,
		recorderTimeout: 10 * time.Second,
		bySession:       make(map[string]*Submission),
		byID:            make(map[uuid.UUID]*Submission),
	}
}

// SubmissionRequest carries everything checkout needs, already resolved:
// the store profile, the cart snapshot and the buyer-entered fields.
type SubmissionRequest struct {
	SessionID string
	Store     d.StoreProfile
	Cart      d.CartSnapshot
	Customer  d.CustomerInfo
	Method    d.PaymentMethod
}

// Submission is one in-flight checkout. It suspends at the two user-decision
// points and is resumed through Decide.
type Submission struct {
	ID uuid.UUID

	mu          sync.Mutex
	sessionID   string
	store       d.StoreProfile
	cart        d.CartSnapshot
	customer    d.CustomerInfo
	method      d.PaymentMethod
	state       d.SubmissionState
	retriesLeft int
	outcome     *d.ReservationOutcome
}

// transition moves the submission to the next state, guarding against
// illegal moves. Caller must hold sub.mu.
func (s *Submission) transition(to d.SubmissionState) error {
	if !d.CanTransitionTo(s.state, to) {
		return IllegalTransitionError
	}
	s.state = to
	return nil
}

// Decision is a buyer's answer at one of the two suspension points.
type Decision string

const (
	DecisionContinue Decision = "continue" // proceed despite failed lines
	DecisionCancel   Decision = "cancel"   // abandon the submission
	DecisionRetry    Decision = "retry"    // retry the reservation call once
	DecisionGiveUp   Decision = "give_up"  // abandon after a transport fault
)

// FailedLine is a reservation failure resolved to a buyer-readable name.
type FailedLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
}

// SubmissionResult reports where the submission landed. FailedLines is set
// when the buyer must choose whether to continue; RedirectURL when the
// hand-off fired.
type SubmissionResult struct {
	SubmissionID uuid.UUID
	State        d.SubmissionState
	FailedLines  []FailedLine
	RedirectURL  string
}
