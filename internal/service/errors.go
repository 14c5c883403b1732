package service

import "errors"

var (
	ErrEmptyCart                   = errors.New("cart is empty, nothing to checkout")
	ErrIncompleteCustomerInfo      = errors.New("customer name and phone are required")
	ErrChannelNotConfigured        = errors.New("store has no messaging channel configured")
	ErrSubmissionInFlight          = errors.New("a submission is already in flight for this session")
	ErrSubmissionNotFound          = errors.New("submission not found")
	ErrStockReservationUnavailable = errors.New("stock reservation service unavailable")
	ErrInvalidDecision             = errors.New("decision does not apply to the current state")
	IllegalTransitionError         = errors.New("illegal transition of submission state")
)
