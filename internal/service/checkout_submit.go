package service

import (
	"context"
	"log"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/google/uuid"
)

// complete runs the final leg: build the order record, dispatch it to the
// recorder without waiting, open the messaging hand-off and clear the cart.
// The record is built from the original cart even when some lines failed
// reservation and the buyer chose to continue. Caller must hold sub.mu.
func (o *CheckoutOrchestrator) complete(ctx context.Context, sub *Submission) (*SubmissionResult, error) {
	if err := sub.transition(d.StateSubmitting); err != nil {
		return nil, err
	}

	record := buildOrderRecord(sub)

	// Dispatch and detach: the write result is intentionally never joined.
	// Persistence failures are logged and must never block, delay or alter
	// the hand-off.
	go func(rec *d.OrderRecord) {
		rctx, cancel := context.WithTimeout(context.Background(), o.recorderTimeout)
		defer cancel()
		if err := o.recorder.Create(rctx, rec); err != nil {
			log.Printf("order record write failed for submission %s: %v", sub.ID, err)
		}
	}(record)

	message := BuildOrderMessage(sub.store, sub.cart, sub.customer, sub.method)
	redirect := o.handoff.Open(message, sub.store.WhatsAppNumber)

	if err := o.carts.ClearCart(ctx, sub.sessionID); err != nil {
		log.Printf("failed to clear cart for session %s: %v", sub.sessionID, err)
	}

	if err := sub.transition(d.StateCompleted); err != nil {
		return nil, err
	}
	o.drop(sub)

	return &SubmissionResult{
		SubmissionID: sub.ID,
		State:        d.StateCompleted,
		RedirectURL:  redirect,
	}, nil
}

func buildOrderRecord(sub *Submission) *d.OrderRecord {
	lines := make([]d.OrderLine, len(sub.cart.Lines))
	for i, line := range sub.cart.Lines {
		lines[i] = d.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	subtotal := sub.cart.Subtotal()
	discount := d.ComputeDiscount(subtotal, sub.method, sub.store.Discounts)

	return &d.OrderRecord{
		ID:              uuid.New(),
		StoreID:         sub.store.ID,
		Customer:        sub.customer,
		Lines:           lines,
		Total:           subtotal - discount,
		PaymentMethod:   sub.method,
		DiscountApplied: discount,
		CreatedAt:       time.Now(),
	}
}
