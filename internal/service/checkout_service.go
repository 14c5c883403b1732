package service

import (
	"context"
	"strings"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/google/uuid"
)

// Begin starts a checkout submission for a session. Validation failures are
// returned before any collaborator is touched and leave no trace. When the
// store tracks stock the flow goes through reservation; otherwise it proceeds
// straight to completion.
func (o *CheckoutOrchestrator) Begin(ctx context.Context, req *SubmissionRequest) (*SubmissionResult, error) {
	o.mu.Lock()
	if _, busy := o.bySession[req.SessionID]; busy {
		o.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	if err := validate(req); err != nil {
		o.mu.Unlock()
		return nil, err
	}

	sub := &Submission{
		ID:          uuid.New(),
		sessionID:   req.SessionID,
		store:       req.Store,
		cart:        req.Cart,
		customer:    req.Customer,
		method:      req.Method,
		state:       d.StateValidating,
		retriesLeft: 1,
	}
	o.bySession[req.SessionID] = sub
	o.byID[sub.ID] = sub
	o.mu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if !sub.store.StockTracking {
		return o.complete(ctx, sub)
	}
	return o.reserve(ctx, sub)
}

// Decide resumes a suspended submission with the buyer's choice.
func (o *CheckoutOrchestrator) Decide(ctx context.Context, submissionID uuid.UUID, decision Decision) (*SubmissionResult, error) {
	o.mu.Lock()
	sub, ok := o.byID[submissionID]
	o.mu.Unlock()
	if !ok {
		return nil, ErrSubmissionNotFound
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	switch sub.state {
	case d.StateAwaitingStockChoice:
		switch decision {
		case DecisionContinue:
			return o.complete(ctx, sub)
		case DecisionCancel:
			return o.abandon(sub)
		}
	case d.StateAwaitingRetryChoice:
		switch decision {
		case DecisionRetry:
			sub.retriesLeft--
			return o.reserve(ctx, sub)
		case DecisionGiveUp:
			return o.abandon(sub)
		}
	}
	return nil, ErrInvalidDecision
}

// abandon returns the machine to Idle: no order record, no hand-off, cart
// untouched. Caller must hold sub.mu.
func (o *CheckoutOrchestrator) abandon(sub *Submission) (*SubmissionResult, error) {
	if err := sub.transition(d.StateIdle); err != nil {
		return nil, err
	}
	o.drop(sub)
	return &SubmissionResult{SubmissionID: sub.ID, State: d.StateIdle}, nil
}

func (o *CheckoutOrchestrator) drop(sub *Submission) {
	o.mu.Lock()
	delete(o.bySession, sub.sessionID)
	delete(o.byID, sub.ID)
	o.mu.Unlock()
}

// validate is the entry guard: it fails closed with zero side effects.
func validate(req *SubmissionRequest) error {
	if req.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	if !req.Customer.Complete() {
		return ErrIncompleteCustomerInfo
	}
	if strings.TrimSpace(req.Store.WhatsAppNumber) == "" {
		return ErrChannelNotConfigured
	}
	return nil
}
