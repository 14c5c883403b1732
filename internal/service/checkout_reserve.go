package service

import (
	"context"
	"fmt"
	"log"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

// reserve runs the batch stock reservation. Three outcomes: all lines
// reserved (proceed), some lines rejected (suspend for the buyer's choice),
// or a transport fault (offer exactly one retry, then terminal failure).
// Caller must hold sub.mu.
func (o *CheckoutOrchestrator) reserve(ctx context.Context, sub *Submission) (*SubmissionResult, error) {
	if err := sub.transition(d.StateReserving); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("pedido de %s (%s)", sub.customer.Name, sub.customer.Phone)
	outcome, err := o.reservations.Reserve(ctx, sub.store.ID, reservationLines(sub.cart), note)
	if err != nil {
		if sub.retriesLeft > 0 {
			log.Printf("reservation call failed for submission %s, retry available: %v", sub.ID, err)
			if trErr := sub.transition(d.StateAwaitingRetryChoice); trErr != nil {
				return nil, trErr
			}
			return &SubmissionResult{SubmissionID: sub.ID, State: sub.state}, nil
		}
		log.Printf("reservation retry budget exhausted for submission %s: %v", sub.ID, err)
		if trErr := sub.transition(d.StateIdle); trErr != nil {
			return nil, trErr
		}
		o.drop(sub)
		return nil, ErrStockReservationUnavailable
	}

	if !outcome.Success {
		// Data-level failure: does not consume the retry budget. The buyer
		// decides whether the sale proceeds without the failed lines held.
		sub.outcome = outcome
		if trErr := sub.transition(d.StateAwaitingStockChoice); trErr != nil {
			return nil, trErr
		}
		return &SubmissionResult{
			SubmissionID: sub.ID,
			State:        sub.state,
			FailedLines:  resolveFailedLines(&sub.cart, outcome),
		}, nil
	}

	return o.complete(ctx, sub)
}

func reservationLines(cart d.CartSnapshot) []d.ReservationRequestLine {
	lines := make([]d.ReservationRequestLine, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = d.ReservationRequestLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}
	return lines
}

// resolveFailedLines maps reservation failures back to buyer-readable names
// via the cart snapshot.
func resolveFailedLines(cart *d.CartSnapshot, outcome *d.ReservationOutcome) []FailedLine {
	failed := outcome.FailedLines()
	lines := make([]FailedLine, len(failed))
	for i, f := range failed {
		lines[i] = FailedLine{
			ProductID: f.ProductID,
			Name:      cart.LineName(f.ProductID),
			Reason:    f.ErrorMessage,
		}
	}
	return lines
}
